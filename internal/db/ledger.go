package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	config "github.com/glkeru/loyalty/ledgersync/internal/config"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var entryColumns = []string{"id", "userid", "points", "description", "categoryid", "kind", "createdat"}

type LedgerDB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewLedgerDB(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*LedgerDB, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapError(err)
	}
	return &LedgerDB{pool, logger}, nil
}

func (p *LedgerDB) Close() {
	p.pool.Close()
}

func (p *LedgerDB) sqlError(err error, sql string, args []any) error {
	p.logger.Error("SQL error",
		zap.Error(err),
		zap.String("query", sql),
		zap.Any("args", args),
	)
	return mapError(err)
}

// Транзакция с откатом при ошибке
func (p *LedgerDB) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return mapError(err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// Заблокировать счет пользователя, при отсутствии создать
func (p *LedgerDB) lockAccount(ctx context.Context, tx pgx.Tx, user string) (balance int64, err error) {
	sql, args, err := sq.Insert("accounts").
		Columns("uuid", "userid", "balance").
		Values(uuid.New(), user, 0).
		Suffix("ON CONFLICT (userid) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return 0, p.sqlError(err, sql, args)
	}

	// блокируем строку с балансом
	row := tx.QueryRow(ctx, "SELECT balance FROM accounts WHERE userid = $1 FOR UPDATE", user)
	if err = row.Scan(&balance); err != nil {
		return 0, mapError(err)
	}
	return balance, nil
}

func (p *LedgerDB) setBalance(ctx context.Context, tx pgx.Tx, user string, balance int64) error {
	sql, args, err := sq.Update("accounts").
		Set("balance", balance).
		Where(sq.Eq{"userid": user}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return p.sqlError(err, sql, args)
	}
	return nil
}

// Заблокировать запись
func (p *LedgerDB) lockEntry(ctx context.Context, tx pgx.Tx, id string) (model.LedgerEntry, error) {
	sql, args, err := sq.Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.LedgerEntry{}, err
	}
	entry, err := scanEntry(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LedgerEntry{}, fmt.Errorf("entry %s %w", id, model.ErrNotFound)
		}
		return model.LedgerEntry{}, p.sqlError(err, sql, args)
	}
	return entry, nil
}

// Новая запись и изменение баланса в одной транзакции
func (p *LedgerDB) AddEntry(ctx context.Context, entry model.LedgerEntry) (saved model.LedgerEntry, err error) {
	if entry.UserID == "" {
		return model.LedgerEntry{}, fmt.Errorf("entry without user: %w", model.ErrValidation)
	}
	err = p.inTx(ctx, func(tx pgx.Tx) error {
		saved, err = p.addEntry(ctx, tx, entry)
		return err
	})
	return saved, err
}

func (p *LedgerDB) addEntry(ctx context.Context, tx pgx.Tx, entry model.LedgerEntry) (model.LedgerEntry, error) {
	balance, err := p.lockAccount(ctx, tx, entry.UserID)
	if err != nil {
		return model.LedgerEntry{}, err
	}

	entry.ID = uuid.New().String()
	entry.Provisional = false
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	sql, args, err := sq.Insert("entries").
		Columns(entryColumns...).
		Values(entry.ID, entry.UserID, entry.Points, entry.Description, entry.CategoryID, entry.Kind, entry.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return model.LedgerEntry{}, p.sqlError(err, sql, args)
	}
	if err = p.setBalance(ctx, tx, entry.UserID, balance+entry.Points); err != nil {
		return model.LedgerEntry{}, err
	}
	return entry, nil
}

// Изменение записи, баланс меняется на разницу баллов
func (p *LedgerDB) UpdateEntry(ctx context.Context, entry model.LedgerEntry) (saved model.LedgerEntry, err error) {
	err = p.inTx(ctx, func(tx pgx.Tx) error {
		saved, err = p.updateEntry(ctx, tx, entry)
		return err
	})
	return saved, err
}

func (p *LedgerDB) updateEntry(ctx context.Context, tx pgx.Tx, entry model.LedgerEntry) (model.LedgerEntry, error) {
	old, err := p.lockEntry(ctx, tx, entry.ID)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if entry.UserID != "" && entry.UserID != old.UserID {
		return model.LedgerEntry{}, fmt.Errorf("entry %s belongs to another user: %w", entry.ID, model.ErrAccess)
	}
	balance, err := p.lockAccount(ctx, tx, old.UserID)
	if err != nil {
		return model.LedgerEntry{}, err
	}

	sql, args, err := sq.Update("entries").
		Set("points", entry.Points).
		Set("description", entry.Description).
		Set("categoryid", entry.CategoryID).
		Set("kind", entry.Kind).
		Where(sq.Eq{"id": entry.ID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return model.LedgerEntry{}, p.sqlError(err, sql, args)
	}
	if err = p.setBalance(ctx, tx, old.UserID, balance-old.Points+entry.Points); err != nil {
		return model.LedgerEntry{}, err
	}

	saved := old
	saved.Points = entry.Points
	saved.Description = entry.Description
	saved.CategoryID = entry.CategoryID
	saved.Kind = entry.Kind
	return saved, nil
}

// Удаление записи, баллы записи снимаются с баланса
func (p *LedgerDB) DeleteEntry(ctx context.Context, id string) (deleted model.LedgerEntry, err error) {
	err = p.inTx(ctx, func(tx pgx.Tx) error {
		deleted, err = p.deleteEntry(ctx, tx, id)
		return err
	})
	return deleted, err
}

func (p *LedgerDB) deleteEntry(ctx context.Context, tx pgx.Tx, id string) (model.LedgerEntry, error) {
	old, err := p.lockEntry(ctx, tx, id)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	balance, err := p.lockAccount(ctx, tx, old.UserID)
	if err != nil {
		return model.LedgerEntry{}, err
	}

	sql, args, err := sq.Delete("entries").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return model.LedgerEntry{}, p.sqlError(err, sql, args)
	}
	if err = p.setBalance(ctx, tx, old.UserID, balance-old.Points); err != nil {
		return model.LedgerEntry{}, err
	}
	return old, nil
}

// Пакет: каждая операция в своей транзакции, ошибка одной не отменяет другие
func (p *LedgerDB) BatchExecute(ctx context.Context, ops []model.Operation) []model.OperationResult {
	results := make([]model.OperationResult, len(ops))
	for i, op := range ops {
		var entry model.LedgerEntry
		err := p.inTx(ctx, func(tx pgx.Tx) (err error) {
			switch op.Type {
			case model.OP_ADD:
				entry, err = p.addEntry(ctx, tx, op.Entry)
			case model.OP_UPDATE:
				entry, err = p.updateEntry(ctx, tx, op.Entry)
			case model.OP_DELETE:
				entry, err = p.deleteEntry(ctx, tx, op.Entry.ID)
			default:
				err = fmt.Errorf("operation type %d: %w", op.Type, model.ErrValidation)
			}
			return err
		})
		results[i] = model.OperationResult{Entry: entry, Err: err}
	}
	return results
}

// Страница записей. Лишняя строка в выборке означает, что есть следующая страница.
func (p *LedgerDB) ListEntries(ctx context.Context, user string, page int, limit int, filter model.Filter) (list model.PaginatedList[model.LedgerEntry], err error) {
	if page < 1 || limit < 1 {
		return list, fmt.Errorf("page %d limit %d: %w", page, limit, model.ErrValidation)
	}
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return list, mapError(err)
	}
	defer conn.Release()

	where := entryFilter(user, filter)

	sql, args, err := sq.Select("COUNT(*)").
		From("entries").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return list, err
	}
	if err = conn.QueryRow(ctx, sql, args...).Scan(&list.Total); err != nil {
		return list, p.sqlError(err, sql, args)
	}

	sql, args, err = sq.Select(entryColumns...).
		From("entries").
		Where(where).
		OrderBy("createdat DESC", "id").
		Offset(uint64((page - 1) * limit)).
		Limit(uint64(limit + 1)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return list, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return list, p.sqlError(err, sql, args)
	}
	defer rows.Close()

	list.Items = make([]model.LedgerEntry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return list, mapError(err)
		}
		list.Items = append(list.Items, entry)
	}
	if err = rows.Err(); err != nil {
		return list, mapError(err)
	}

	list.Page = page
	if len(list.Items) > limit {
		list.Items = list.Items[:limit]
		list.HasMore = true
	}
	return list, nil
}

// Получить баланс
func (p *LedgerDB) GetBalance(ctx context.Context, user string) (points int64, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, mapError(err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, "SELECT balance FROM accounts WHERE userid = $1", user)
	err = row.Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// счета еще нет - баланс нулевой
			return 0, nil
		}
		return 0, mapError(err)
	}
	return points, nil
}

func entryFilter(user string, filter model.Filter) sq.And {
	where := sq.And{sq.Eq{"userid": user}}
	if filter.CategoryID != "" {
		where = append(where, sq.Eq{"categoryid": filter.CategoryID})
	}
	if len(filter.Kinds) > 0 {
		where = append(where, sq.Eq{"kind": filter.Kinds})
	}
	if filter.Query != "" {
		where = append(where, sq.ILike{"description": "%" + escapeLike(filter.Query) + "%"})
	}
	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanEntry(row pgx.Row) (model.LedgerEntry, error) {
	var entry model.LedgerEntry
	var description, category pgtype.Text
	err := row.Scan(&entry.ID, &entry.UserID, &entry.Points, &description, &category, &entry.Kind, &entry.CreatedAt)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	entry.Description = description.String
	entry.CategoryID = category.String
	return entry, nil
}

// Ошибки драйвера в ошибки леджера
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return fmt.Errorf("%w: %w", model.ErrTimeout, err)
	case errors.As(err, &pgErr):
		switch {
		case pgErr.Code == "23505", pgErr.Code == "40001", pgErr.Code == "40P01", pgErr.Code == "55P03":
			return fmt.Errorf("%w: %w", model.ErrConflict, err)
		case pgErr.Code == "42501":
			return fmt.Errorf("%w: %w", model.ErrAccess, err)
		case pgErr.Code == "57014":
			return fmt.Errorf("%w: %w", model.ErrTimeout, err)
		case strings.HasPrefix(pgErr.Code, "22"), strings.HasPrefix(pgErr.Code, "23"):
			return fmt.Errorf("%w: %w", model.ErrValidation, err)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %w", model.ErrNetwork, err)
		}
		return fmt.Errorf("%w: %w", model.ErrServer, err)
	case errors.As(err, &connErr):
		return fmt.Errorf("%w: %w", model.ErrNetwork, err)
	}
	return err
}

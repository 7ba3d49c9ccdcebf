package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	interf "github.com/glkeru/loyalty/ledgersync/internal/interfaces"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	_ interf.LedgerRepository = (*Repository)(nil)
	_ interf.LedgerStorage    = (*LedgerDB)(nil)
	_ interf.CacheStorage     = (*CacheService)(nil)
	_ interf.BalanceWatcher   = (*CacheService)(nil)
	_ interf.CatalogStorage   = (*CatalogDB)(nil)
)

// Repository - удаленная сторона движка: леджер в Postgres, кэш баланса в Redis,
// каталог в Mongo, списания через очередь сервиса баллов.
// После каждого изменения баланс в кэше сбрасывается и публикуется подписчикам.
type Repository struct {
	ledger  interf.LedgerStorage
	cache   interf.CacheStorage
	catalog interf.CatalogStorage
	broker  interf.RedeemBroker
	logger  *zap.Logger
	now     func() time.Time
}

func NewRepository(ledger interf.LedgerStorage, cache interf.CacheStorage, catalog interf.CatalogStorage, broker interf.RedeemBroker, logger *zap.Logger) *Repository {
	return &Repository{ledger, cache, catalog, broker, logger, time.Now}
}

func (r *Repository) AddEntry(ctx context.Context, entry model.LedgerEntry) (model.LedgerEntry, error) {
	saved, err := r.ledger.AddEntry(ctx, entry)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	r.balanceChanged(ctx, saved.UserID)
	return saved, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, entry model.LedgerEntry) (model.LedgerEntry, error) {
	saved, err := r.ledger.UpdateEntry(ctx, entry)
	if err != nil {
		return model.LedgerEntry{}, err
	}
	r.balanceChanged(ctx, saved.UserID)
	return saved, nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id string) error {
	deleted, err := r.ledger.DeleteEntry(ctx, id)
	if err != nil {
		return err
	}
	r.balanceChanged(ctx, deleted.UserID)
	return nil
}

func (r *Repository) ListEntries(ctx context.Context, user string, page int, limit int, filter model.Filter) (model.PaginatedList[model.LedgerEntry], error) {
	return r.ledger.ListEntries(ctx, user, page, limit, filter)
}

// Баланс из кэша, при промахе из базы
func (r *Repository) GetBalance(ctx context.Context, user string) (int64, error) {
	points, err := r.cache.GetBalance(ctx, user)
	if err == nil {
		return points, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		r.logger.Warn("cache get balance", zap.String("user", user), zap.Error(err))
	}

	points, err = r.ledger.GetBalance(ctx, user)
	if err != nil {
		return 0, err
	}
	if err := r.cache.SetBalance(ctx, user, points); err != nil {
		r.logger.Warn("cache set balance", zap.String("user", user), zap.Error(err))
	}
	return points, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	return r.catalog.ListCategories(ctx)
}

func (r *Repository) ListOptions(ctx context.Context) ([]model.RedemptionOption, error) {
	return r.catalog.ListOptions(ctx)
}

// Проверка списания по каталогу и балансу в базе
func (r *Repository) ValidateRedemption(ctx context.Context, user string, optionId string, quantity int) error {
	_, err := r.checkRedemption(ctx, user, optionId, quantity)
	return err
}

func (r *Repository) checkRedemption(ctx context.Context, user string, optionId string, quantity int) (model.RedemptionOption, error) {
	option, err := r.catalog.GetOption(ctx, optionId)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.RedemptionOption{}, fmt.Errorf("option %s: %w: %w", optionId, model.ErrOptionUnavailable, err)
		}
		return model.RedemptionOption{}, err
	}
	balance, err := r.ledger.GetBalance(ctx, user)
	if err != nil {
		return model.RedemptionOption{}, err
	}
	if err := option.Validate(quantity, balance, r.now()); err != nil {
		return model.RedemptionOption{}, err
	}
	return option, nil
}

// Списание через сервис баллов: запрос в очередь и ожидание подтверждения
func (r *Repository) Redeem(ctx context.Context, user string, optionId string, quantity int) (model.RedemptionTransaction, error) {
	option, err := r.checkRedemption(ctx, user, optionId, quantity)
	if err != nil {
		return model.RedemptionTransaction{}, err
	}

	now := r.now()
	tnx := model.RedemptionTransaction{
		ID:        uuid.NewString(),
		OptionID:  option.ID,
		Quantity:  quantity,
		TotalCost: option.Cost * int64(quantity),
		Status:    model.PROCESSING,
		CreatedAt: now,
		UpdatedAt: now,
	}
	confirm, err := r.broker.RequestRedeem(ctx, model.RedeemRequest{
		RedeemId: tnx.ID,
		User:     user,
		OptionId: option.ID,
		Quantity: quantity,
		Points:   tnx.TotalCost,
	})
	if err != nil {
		return model.RedemptionTransaction{}, err
	}
	tnx.UpdatedAt = r.now()

	if !confirm.Success {
		r.logger.Warn("redeem rejected",
			zap.String("redeem", tnx.ID),
			zap.String("user", user),
			zap.String("reason", confirm.Reason),
		)
		return model.RedemptionTransaction{}, rejectReason(tnx.ID, confirm.Reason)
	}

	tnx.Status = model.COMPLETED
	tnx.ConfirmationCode = confirm.Code
	r.balanceChanged(ctx, user)
	return tnx, nil
}

// Код отказа сервиса баллов в ошибку
func rejectReason(id string, reason string) error {
	var err error
	switch reason {
	case model.ValidationInsufficientBalance.String():
		err = model.ErrInsufficientBalance
	case model.ValidationOptionUnavailable.String():
		err = model.ErrOptionUnavailable
	case model.ValidationOptionExpired.String():
		err = model.ErrOptionExpired
	case model.ValidationQuantityExceeded.String():
		err = model.ErrQuantityExceeded
	default:
		err = model.ErrServer
	}
	return fmt.Errorf("redeem %s rejected (%s): %w", id, reason, err)
}

// Пакет; баланс обновляется один раз на пользователя
func (r *Repository) BatchExecute(ctx context.Context, ops []model.Operation) ([]model.OperationResult, error) {
	results := r.ledger.BatchExecute(ctx, ops)
	users := make(map[string]struct{})
	for _, res := range results {
		if res.Err == nil && res.Entry.UserID != "" {
			users[res.Entry.UserID] = struct{}{}
		}
	}
	for user := range users {
		r.balanceChanged(ctx, user)
	}
	return results, nil
}

// Сбросить кэш и опубликовать новый баланс. Ошибки только логируются:
// изменение в базе уже зафиксировано.
func (r *Repository) balanceChanged(ctx context.Context, user string) {
	if err := r.cache.InvalidateBalance(ctx, user); err != nil {
		r.logger.Warn("cache invalidate", zap.String("user", user), zap.Error(err))
	}
	points, err := r.ledger.GetBalance(ctx, user)
	if err != nil {
		r.logger.Warn("balance after change", zap.String("user", user), zap.Error(err))
		return
	}
	if err := r.cache.SetBalance(ctx, user, points); err != nil {
		r.logger.Warn("cache set balance", zap.String("user", user), zap.Error(err))
	}
	if err := r.cache.PublishBalance(ctx, user, points); err != nil {
		r.logger.Warn("publish balance", zap.String("user", user), zap.Error(err))
	}
}

package ledger

import (
	"context"
	"fmt"
	"slices"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Префикс временных ID до подтверждения сервером
const provisionalPrefix = "tmp-"

// Неподтвержденное изменение. before - снапшот до изменения, при ошибке восстанавливается как есть.
type pendingMutation struct {
	op          model.OpKind
	target      string
	provisional string
	before      *model.Snapshot
}

// Одна сущность - не больше одного неподтвержденного изменения
func (e *Engine) acquire(op model.OpKind, target string, before *model.Snapshot) (*pendingMutation, bool) {
	if _, busy := e.pending[target]; busy {
		return nil, false
	}
	m := &pendingMutation{op: op, target: target, before: before}
	e.pending[target] = m
	return m, true
}

func (e *Engine) release(m *pendingMutation) {
	if e.pending[m.target] == m {
		delete(e.pending, m.target)
	}
}

func conflictError(op model.OpKind, cmd model.Command, target string) *model.ClassifiedError {
	return classifyError(fmt.Errorf("%s has an unconfirmed change: %w", target, model.ErrConflict), op, cmd, target)
}

// Вызов хранилища. Паника становится ошибкой вызова, поэтому откат выполняется как при любой другой ошибке.
func (e *Engine) remote(op model.OpKind, call func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("remote call panic",
				zap.String("op", op.String()),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("%w: %v", ErrRemotePanic, r)
		}
	}()
	return call()
}

// Откат: снапшот до изменения восстанавливается целиком, затем ошибка
func (e *Engine) rollback(m *pendingMutation, ce *model.ClassifiedError) {
	rollbacksTotal.WithLabelValues(m.op.String()).Inc()
	e.logger.Warn("optimistic change rolled back",
		zap.String("op", m.op.String()),
		zap.String("target", m.target),
		zap.String("code", ce.Code()),
		zap.Error(ce.Cause),
	)
	next := m.before.Clone()
	next.Err = ce
	next.Status = model.Failed{Err: ce}
	e.emit(next)
}

func (e *Engine) addEntry(ctx context.Context, cmd model.AddEntry) {
	before := e.current
	entry := cmd.Entry
	if entry.UserID == "" {
		entry.UserID = e.user
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = e.now()
	}
	entry.Provisional = false

	provisional := entry
	provisional.ID = provisionalPrefix + uuid.NewString()
	provisional.Provisional = true

	m, _ := e.acquire(model.OpAdd, provisional.ID, before)
	m.provisional = provisional.ID
	defer e.release(m)

	next := e.begin()
	next.Entries = insertEntry(before.Entries, provisional)
	next.Balance = before.Balance + provisional.Points
	next.Status = model.PendingConfirmation{Op: model.OpAdd, TargetID: provisional.ID}
	e.emit(next)

	var saved model.LedgerEntry
	err := e.remote(model.OpAdd, func() (err error) {
		saved, err = e.repo.AddEntry(ctx, entry)
		return err
	})
	if err != nil {
		ce := classifyError(err, model.OpAdd, cmd, provisional.ID)
		ce.ProvisionalID = provisional.ID
		e.rollback(m, ce)
		return
	}
	saved.Provisional = false

	// баланс по фактической дельте сервера
	cur := e.current
	conf := e.begin()
	conf.Entries = replaceEntry(cur.Entries, provisional.ID, saved)
	conf.Balance = cur.Balance - provisional.Points + saved.Points
	conf.Status = model.Succeeded{Op: model.OpAdd}
	e.emit(conf)
}

func (e *Engine) updateEntry(ctx context.Context, cmd model.UpdateEntry) {
	before := e.current
	id := cmd.Entry.ID
	idx := before.EntryIndex(id)
	if idx < 0 {
		e.fail(localError(fmt.Errorf("update %s: %w", id, model.ErrNotLoaded), model.OpUpdate, cmd, id))
		return
	}
	m, ok := e.acquire(model.OpUpdate, id, before)
	if !ok {
		e.fail(conflictError(model.OpUpdate, cmd, id))
		return
	}
	defer e.release(m)

	old := before.Entries.Items[idx]
	entry := cmd.Entry
	if entry.UserID == "" {
		entry.UserID = old.UserID
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = old.CreatedAt
	}
	entry.Provisional = false
	provisional := entry
	provisional.Provisional = true
	assumed := provisional.Points - old.Points

	next := e.begin()
	next.Entries = replaceEntry(before.Entries, id, provisional)
	next.Balance = before.Balance + assumed
	next.Status = model.PendingConfirmation{Op: model.OpUpdate, TargetID: id}
	e.emit(next)

	var saved model.LedgerEntry
	err := e.remote(model.OpUpdate, func() (err error) {
		saved, err = e.repo.UpdateEntry(ctx, entry)
		return err
	})
	if err != nil {
		e.rollback(m, classifyError(err, model.OpUpdate, cmd, id))
		return
	}
	saved.Provisional = false

	cur := e.current
	conf := e.begin()
	conf.Entries = replaceEntry(cur.Entries, id, saved)
	conf.Balance = cur.Balance - assumed + (saved.Points - old.Points)
	if saved.ID != id {
		conf.Selected = renameSelected(cur.Selected, id, saved.ID)
	}
	conf.Status = model.Succeeded{Op: model.OpUpdate}
	e.emit(conf)
}

func (e *Engine) deleteEntry(ctx context.Context, cmd model.DeleteEntry) {
	before := e.current
	idx := before.EntryIndex(cmd.ID)
	if idx < 0 {
		e.fail(localError(fmt.Errorf("delete %s: %w", cmd.ID, model.ErrNotLoaded), model.OpDelete, cmd, cmd.ID))
		return
	}
	m, ok := e.acquire(model.OpDelete, cmd.ID, before)
	if !ok {
		e.fail(conflictError(model.OpDelete, cmd, cmd.ID))
		return
	}
	defer e.release(m)

	old := before.Entries.Items[idx]
	next := e.begin()
	next.Entries = removeEntry(before.Entries, cmd.ID)
	next.Balance = before.Balance - old.Points
	next.Selected = pruneSelection(before.Selected, next.Entries.Items)
	next.Status = model.PendingConfirmation{Op: model.OpDelete, TargetID: cmd.ID}
	e.emit(next)

	err := e.remote(model.OpDelete, func() error {
		return e.repo.DeleteEntry(ctx, cmd.ID)
	})
	if err != nil {
		e.rollback(m, classifyError(err, model.OpDelete, cmd, cmd.ID))
		return
	}
	conf := e.begin()
	conf.Status = model.Succeeded{Op: model.OpDelete}
	e.emit(conf)
}

// Новая запись в начало списка
func insertEntry(list model.PaginatedList[model.LedgerEntry], entry model.LedgerEntry) model.PaginatedList[model.LedgerEntry] {
	items := make([]model.LedgerEntry, 0, len(list.Items)+1)
	items = append(items, entry)
	items = append(items, list.Items...)
	list.Items = items
	list.Total++
	return list
}

// Замена записи id на entry на том же месте. Если entry.ID уже есть в списке, старая копия убирается.
func replaceEntry(list model.PaginatedList[model.LedgerEntry], id string, entry model.LedgerEntry) model.PaginatedList[model.LedgerEntry] {
	items := make([]model.LedgerEntry, 0, len(list.Items))
	for _, v := range list.Items {
		switch {
		case v.ID == id:
			items = append(items, entry)
		case v.ID == entry.ID:
			list.Total--
		default:
			items = append(items, v)
		}
	}
	list.Items = items
	return list
}

func removeEntry(list model.PaginatedList[model.LedgerEntry], id string) model.PaginatedList[model.LedgerEntry] {
	items := make([]model.LedgerEntry, 0, len(list.Items))
	for _, v := range list.Items {
		if v.ID != id {
			items = append(items, v)
		}
	}
	if len(items) < len(list.Items) && list.Total > 0 {
		list.Total--
	}
	list.Items = items
	return list
}

func renameSelected(selected []string, from string, to string) []string {
	out := slices.Clone(selected)
	for i, v := range out {
		if v == from {
			out[i] = to
		}
	}
	return out
}

package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"go.uber.org/zap"
)

// Периодическая сверка с сервером. Тик только ставит событие в очередь,
// сам запрос выполняется в цикле движка.
type reconciler struct {
	interval time.Duration
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
}

func (r *reconciler) running() bool {
	return r.cancel != nil
}

func (r *reconciler) start(ctx context.Context, tick func(gen uint64)) {
	if r.running() || r.interval <= 0 {
		return
	}
	r.gen++
	gen := r.gen
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	done := r.done

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick(gen)
			}
		}
	}()
}

// Синхронная остановка
func (r *reconciler) stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
	r.gen++
}

// Сверка баланса (и категорий). Результат применяется так же, как значение из потока.
// Ошибки фоновой сверки только логируются.
func (e *Engine) sync(ctx context.Context, cmd model.Sync, background bool) {
	if e.user == "" {
		if !background {
			e.fail(localError(model.ErrNoUser, model.OpSync, cmd, ""))
		}
		return
	}
	balance, err := e.repo.GetBalance(ctx, e.user)
	if err != nil {
		e.syncFailed(fmt.Errorf("balance: %w", err), cmd, background)
		return
	}
	var categories []model.Category
	if cmd.Categories {
		categories, err = e.repo.ListCategories(ctx)
		if err != nil {
			e.syncFailed(fmt.Errorf("categories: %w", err), cmd, background)
			return
		}
		categories = sortCategories(categories)
	}

	cur := e.current
	changed := balance != cur.Balance
	if cmd.Categories && !slices.Equal(categories, cur.Categories) {
		changed = true
	}
	if balance != cur.Balance {
		e.logger.Info("balance drift corrected",
			zap.Int64("local", cur.Balance),
			zap.Int64("remote", balance),
		)
	}

	var next *model.Snapshot
	if background {
		if !changed {
			return
		}
		next = cur.Clone()
	} else {
		// явная команда снимает прежнюю ошибку
		next = e.begin()
	}
	next.Balance = balance
	if cmd.Categories {
		next.Categories = categories
	}
	e.emit(next)
}

func (e *Engine) syncFailed(err error, cmd model.Sync, background bool) {
	if background {
		e.logger.Warn("reconcile failed", zap.Error(err))
		return
	}
	e.fail(classifyError(err, model.OpSync, cmd, e.user))
}

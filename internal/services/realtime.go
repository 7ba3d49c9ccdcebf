package ledger

import (
	"context"
	"fmt"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"go.uber.org/zap"
)

// Поток баланса закрылся сам
type watchClosed struct {
	gen uint64
}

func (watchClosed) event() {}

// Подписка на поток баланса
type balanceWatch struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

func (w *balanceWatch) running() bool {
	return w.cancel != nil
}

// Синхронная остановка: после возврата горутина подписки завершена,
// а события прежнего поколения будут отброшены циклом
func (w *balanceWatch) stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil
	w.gen++
}

func (e *Engine) startWatch(cmd model.StartWatch) {
	if e.watch.running() {
		return
	}
	if e.watcher == nil {
		e.fail(localError(fmt.Errorf("balance stream is not configured"), model.OpWatch, cmd, e.user))
		return
	}
	if e.user == "" {
		e.fail(localError(model.ErrNoUser, model.OpWatch, cmd, ""))
		return
	}

	ctx, cancel := context.WithCancel(e.ctx)
	updates, err := e.watcher.WatchBalance(ctx, e.user)
	if err != nil {
		cancel()
		e.fail(classifyError(err, model.OpWatch, cmd, e.user))
		return
	}

	e.watch.gen++
	gen := e.watch.gen
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case points, ok := <-updates:
				if !ok {
					e.queue.push(job{ev: watchClosed{gen}})
					return
				}
				e.queue.push(job{ev: balancePushed{gen, points}})
			}
		}
	}()
	e.watch.cancel = cancel
	e.watch.done = done

	e.logger.Info("balance watch started", zap.String("user", e.user))
	next := e.begin()
	next.RealTime = true
	e.emit(next)
}

func (e *Engine) stopWatch() {
	if !e.watch.running() {
		return
	}
	e.watch.stop()
	e.logger.Info("balance watch stopped", zap.String("user", e.user))
	next := e.begin()
	next.RealTime = false
	e.emit(next)
}

// Значение из потока меняет только баланс
func (e *Engine) applyPush(ev balancePushed) {
	if !e.watch.running() || ev.gen != e.watch.gen {
		return
	}
	if ev.points == e.current.Balance {
		return
	}
	balancePushesTotal.Inc()
	next := e.current.Clone()
	next.Balance = ev.points
	e.emit(next)
}

func (e *Engine) watchEnded(ev watchClosed) {
	if !e.watch.running() || ev.gen != e.watch.gen {
		return
	}
	e.logger.Warn("balance stream closed", zap.String("user", e.user))
	e.watch.stop()
	next := e.current.Clone()
	next.RealTime = false
	e.emit(next)
}

package ledger

import (
	"context"
	"sync"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
)

// Внутренние события от фоновых источников
type event interface {
	event()
}

// Значение из потока баланса
type balancePushed struct {
	gen    uint64
	points int64
}

// Тик планировщика сверки
type reconcileDue struct {
	gen uint64
}

// Истекла задержка поиска
type searchDue struct {
	gen   uint64
	query string
}

func (balancePushed) event() {}
func (reconcileDue) event()  {}
func (searchDue) event()     {}

// Элемент очереди: команда или внутреннее событие
type job struct {
	cmd  model.Command
	ev   event
	done chan model.Snapshot
}

// FIFO очередь без ограничения размера: постановка никогда не блокирует,
// поэтому фоновые источники можно останавливать из цикла движка без взаимной блокировки
type jobQueue struct {
	mu     sync.Mutex
	jobs   []job
	closed bool
	signal chan struct{}
}

func newJobQueue() *jobQueue {
	return &jobQueue{
		jobs:   make([]job, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// false если очередь закрыта
func (q *jobQueue) push(j job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.jobs = append(q.jobs, j)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// Блокирует до появления задания, закрытия очереди или отмены ctx
func (q *jobQueue) pop(ctx context.Context) (job, bool) {
	for {
		q.mu.Lock()
		if len(q.jobs) > 0 {
			j := q.jobs[0]
			q.jobs[0] = job{}
			q.jobs = q.jobs[1:]
			q.mu.Unlock()
			return j, true
		}
		if q.closed {
			q.mu.Unlock()
			return job{}, false
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-ctx.Done():
			return job{}, false
		}
	}
}

// Закрыть очередь и вернуть необработанные задания
func (q *jobQueue) close() []job {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	rest := q.jobs
	q.jobs = nil

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return rest
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	interf "github.com/glkeru/loyalty/ledgersync/internal/interfaces"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("engine is closed")

// Паника внутри вызова хранилища
var ErrRemotePanic = errors.New("remote call panicked")

// значения по умолчанию
const (
	DefaultPageSize          = 20
	DefaultDebounce          = 300 * time.Millisecond
	DefaultReconcileInterval = 5 * time.Minute
	DefaultBatchConcurrency  = 4
	DefaultBatchChunk        = 1
)

type Option func(*Engine)

func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.search.delay = d
	}
}

// 0 - периодическая сверка выключена
func WithReconcileInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.reconciler.interval = d
	}
}

// Сверять также категории
func WithReconcileCategories(on bool) Option {
	return func(e *Engine) {
		e.reconcileCategories = on
	}
}

func WithBatchConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchLimit = n
		}
	}
}

// Кол-во операций в одном вызове BatchExecute
func WithBatchChunk(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchChunk = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine - контейнер состояния.
// Команды обрабатываются строго по одной в порядке поступления в горутине цикла;
// все поля ниже "только цикл" читаются и пишутся только там.
type Engine struct {
	user    string
	repo    interf.LedgerRepository
	watcher interf.BalanceWatcher
	logger  *zap.Logger
	tracer  trace.Tracer

	pageSize            int
	batchLimit          int
	batchChunk          int
	reconcileCategories bool
	now                 func() time.Time

	queue     *jobQueue
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	started   bool
	closeOnce sync.Once

	latest atomic.Pointer[model.Snapshot]

	subsMu  sync.Mutex
	subs    map[int]func(model.Snapshot)
	nextSub int

	// только цикл
	current    *model.Snapshot
	pending    map[string]*pendingMutation
	search     *debouncer
	watch      *balanceWatch
	reconciler *reconciler
}

func NewEngine(user string, repo interf.LedgerRepository, watcher interf.BalanceWatcher, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		user:       user,
		repo:       repo,
		watcher:    watcher,
		logger:     logger,
		tracer:     otel.Tracer("ledgersync"),
		pageSize:   DefaultPageSize,
		batchLimit: DefaultBatchConcurrency,
		batchChunk: DefaultBatchChunk,
		now:        time.Now,
		queue:      newJobQueue(),
		done:       make(chan struct{}),
		subs:       make(map[int]func(model.Snapshot)),
		pending:    make(map[string]*pendingMutation),
		watch:      &balanceWatch{},
		reconciler: &reconciler{interval: DefaultReconcileInterval},
	}
	e.search = &debouncer{
		delay: DefaultDebounce,
		fire: func(gen uint64, query string) {
			e.queue.push(job{ev: searchDue{gen, query}})
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.current = &model.Snapshot{Status: model.Initial{}, LastUpdated: e.now()}
	e.latest.Store(e.current)
	return e
}

// Start запускает цикл обработки команд
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.started = true
	go e.run()
}

// Close останавливает движок. После возврата не будет ни одного нового снапшота:
// поиск, поток баланса и сверка остановлены, ожидающие команды отброшены.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		for _, j := range e.queue.close() {
			if j.done != nil {
				close(j.done)
			}
		}
		e.mu.Lock()
		started := e.started
		cancel := e.cancel
		e.mu.Unlock()
		if started {
			cancel()
			<-e.done
		}
		e.search.cancel()
		e.watch.stop()
		e.reconciler.stop()
	})
}

// Dispatch ставит команду в очередь и ждет снапшот после ее обработки
func (e *Engine) Dispatch(ctx context.Context, cmd model.Command) (model.Snapshot, error) {
	done := make(chan model.Snapshot, 1)
	if !e.queue.push(job{cmd: cmd, done: done}) {
		return model.Snapshot{}, ErrClosed
	}
	select {
	case snap, ok := <-done:
		if !ok {
			return model.Snapshot{}, ErrClosed
		}
		return snap, nil
	case <-ctx.Done():
		return model.Snapshot{}, ctx.Err()
	}
}

// Enqueue ставит команду в очередь без ожидания
func (e *Engine) Enqueue(cmd model.Command) bool {
	return e.queue.push(job{cmd: cmd})
}

// Subscribe: fn вызывается синхронно в цикле движка на каждый новый снапшот.
// fn не должна вызывать Dispatch.
func (e *Engine) Subscribe(fn func(model.Snapshot)) (cancel func()) {
	e.subsMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subsMu.Unlock()

	return func() {
		e.subsMu.Lock()
		delete(e.subs, id)
		e.subsMu.Unlock()
	}
}

// Последний снапшот
func (e *Engine) Snapshot() model.Snapshot {
	return *e.latest.Load()
}

func (e *Engine) run() {
	defer close(e.done)
	for {
		j, ok := e.queue.pop(e.ctx)
		if !ok {
			return
		}
		snap := e.process(j)
		if j.done != nil {
			j.done <- snap
		}
	}
}

// Обработка одного задания. Паника обработчика превращается в снапшот с ошибкой.
func (e *Engine) process(j job) (snap model.Snapshot) {
	name := jobName(j)
	start := time.Now()
	ctx, span := e.tracer.Start(e.ctx, "ledgersync."+name)
	before := e.current

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("command panic",
				zap.String("command", name),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			e.fail(localError(fmt.Errorf("internal error: %v", r), opOf(j.cmd), j.cmd, ""))
		}

		outcome := "ok"
		if e.current.Err != nil && e.current.Err != before.Err {
			outcome = e.current.Err.Code()
			span.SetAttributes(attribute.String("error.code", outcome))
		}
		span.SetAttributes(attribute.Int64("snapshot.version", int64(e.current.Version)))
		span.End()
		commandsTotal.WithLabelValues(name, outcome).Inc()
		commandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		snap = *e.current
	}()

	if j.ev != nil {
		e.handleEvent(ctx, j.ev)
	} else {
		e.handle(ctx, j.cmd)
	}
	return
}

func (e *Engine) handle(ctx context.Context, cmd model.Command) {
	switch c := cmd.(type) {
	case model.Load:
		e.load(ctx, c)
	case model.LoadPage:
		e.loadPage(ctx, c, c.Page)
	case model.LoadMore:
		e.loadMore(ctx, c)
	case model.AddEntry:
		e.addEntry(ctx, c)
	case model.UpdateEntry:
		e.updateEntry(ctx, c)
	case model.DeleteEntry:
		e.deleteEntry(ctx, c)
	case model.Search:
		e.searchInput(c)
	case model.ClearSearch:
		e.clearSearch(ctx)
	case model.SetFilter:
		e.setFilter(ctx, c)
	case model.Select:
		e.selectEntries(c)
	case model.Deselect:
		e.deselectEntries(c)
	case model.ClearSelection:
		e.clearSelection()
	case model.Batch:
		e.batch(ctx, c)
	case model.Sync:
		e.sync(ctx, c, false)
	case model.Retry:
		e.retry(ctx)
	case model.Reset:
		e.reset()
	case model.StartWatch:
		e.startWatch(c)
	case model.StopWatch:
		e.stopWatch()
	case model.LoadOptions:
		e.loadOptions(ctx, c)
	case model.Redeem:
		e.redeem(ctx, c)
	default:
		e.fail(localError(fmt.Errorf("%T: %w", cmd, model.ErrBadCommand), model.OpLoad, nil, ""))
	}
}

func (e *Engine) handleEvent(ctx context.Context, ev event) {
	switch v := ev.(type) {
	case balancePushed:
		e.applyPush(v)
	case watchClosed:
		e.watchEnded(v)
	case reconcileDue:
		if v.gen != e.reconciler.gen {
			return
		}
		e.sync(ctx, model.Sync{Categories: e.reconcileCategories}, true)
	case searchDue:
		query, ok := e.search.take(v.gen)
		if !ok {
			return
		}
		e.applyQuery(ctx, query, model.Search{Query: query})
	}
}

// Публикация нового снапшота
func (e *Engine) emit(next *model.Snapshot) {
	next.Version = e.current.Version + 1
	next.LastUpdated = e.now()
	e.current = next
	e.latest.Store(next)

	e.subsMu.Lock()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(model.Snapshot), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, e.subs[id])
	}
	e.subsMu.Unlock()

	for _, fn := range subs {
		fn(*next)
	}
}

// Копия текущего снапшота для новой пользовательской команды
func (e *Engine) begin() *model.Snapshot {
	next := e.current.Clone()
	next.Err = nil
	return next
}

// Ошибка поверх текущих данных
func (e *Engine) fail(ce *model.ClassifiedError) {
	e.failFrom(e.current, ce)
}

// Ошибка поверх данных base
func (e *Engine) failFrom(base *model.Snapshot, ce *model.ClassifiedError) {
	e.logger.Warn("command failed",
		zap.String("op", ce.Op.String()),
		zap.String("code", ce.Code()),
		zap.String("target", ce.TargetID),
		zap.Error(ce.Cause),
	)
	next := base.Clone()
	next.Err = ce
	next.Status = model.Failed{Err: ce}
	e.emit(next)
}

func (e *Engine) retry(ctx context.Context) {
	ce := e.current.Err
	if ce == nil || !ce.Retryable() {
		e.fail(localError(model.ErrNoRetry, model.OpRetry, nil, ""))
		return
	}
	e.logger.Info("retry",
		zap.String("op", ce.Op.String()),
		zap.String("target", ce.TargetID),
	)
	e.handle(ctx, ce.Command)
}

// Возврат в начальное состояние: все фоновые источники остановлены
func (e *Engine) reset() {
	e.search.cancel()
	e.watch.stop()
	e.reconciler.stop()
	clear(e.pending)
	e.emit(&model.Snapshot{Status: model.Initial{}})
}

func jobName(j job) string {
	if j.ev != nil {
		switch j.ev.(type) {
		case balancePushed:
			return "balance-push"
		case watchClosed:
			return "watch-closed"
		case reconcileDue:
			return "reconcile"
		case searchDue:
			return "search-due"
		}
		return "event"
	}
	switch j.cmd.(type) {
	case model.Deselect, model.ClearSelection:
		return "select"
	case model.ClearSearch:
		return "clear-search"
	case model.StopWatch:
		return "stop-watch"
	case model.LoadMore:
		return "load-more"
	}
	return opOf(j.cmd).String()
}

func opOf(cmd model.Command) model.OpKind {
	switch cmd.(type) {
	case model.Load:
		return model.OpLoad
	case model.LoadPage, model.LoadMore:
		return model.OpLoadPage
	case model.AddEntry:
		return model.OpAdd
	case model.UpdateEntry:
		return model.OpUpdate
	case model.DeleteEntry:
		return model.OpDelete
	case model.Search, model.ClearSearch:
		return model.OpSearch
	case model.SetFilter:
		return model.OpFilter
	case model.Select, model.Deselect, model.ClearSelection:
		return model.OpSelect
	case model.Batch:
		return model.OpBatch
	case model.Sync:
		return model.OpSync
	case model.Retry:
		return model.OpRetry
	case model.Reset:
		return model.OpReset
	case model.StartWatch, model.StopWatch:
		return model.OpWatch
	case model.LoadOptions:
		return model.OpOptions
	case model.Redeem:
		return model.OpRedeem
	}
	return model.OpLoad
}

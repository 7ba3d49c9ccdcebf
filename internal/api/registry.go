package ledger

import (
	"context"
	"sync"

	services "github.com/glkeru/loyalty/ledgersync/internal/services"
)

// Создание движка пользователя
type EngineFactory func(user string) *services.Engine

// Движки пользователей: создаются и запускаются при первом обращении
type Engines struct {
	ctx     context.Context
	factory EngineFactory

	mu      sync.Mutex
	engines map[string]*services.Engine
	closed  bool
}

func NewEngines(ctx context.Context, factory EngineFactory) *Engines {
	return &Engines{
		ctx:     ctx,
		factory: factory,
		engines: make(map[string]*services.Engine),
	}
}

func (r *Engines) Get(user string) (*services.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, services.ErrClosed
	}
	e, ok := r.engines[user]
	if !ok {
		e = r.factory(user)
		e.Start(r.ctx)
		r.engines[user] = e
	}
	return e, nil
}

// Остановить и забыть движок пользователя
func (r *Engines) Drop(user string) {
	r.mu.Lock()
	e, ok := r.engines[user]
	delete(r.engines, user)
	r.mu.Unlock()
	if ok {
		e.Close()
	}
}

func (r *Engines) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

func (r *Engines) Close() {
	r.mu.Lock()
	r.closed = true
	engines := r.engines
	r.engines = make(map[string]*services.Engine)
	r.mu.Unlock()

	for _, e := range engines {
		e.Close()
	}
}

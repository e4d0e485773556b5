// Package task corre operaciones asíncronas de los state machines.
// Cada acción lógica tiene un Slot: una llamada nueva cancela la anterior y sólo
// la última puede publicar (last-writer-wins). Group.Close cancela todo y espera.
package task

import (
	"context"
	"sync"
)

type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewGroup() *Group {
	ctx, cancel := context.WithCancel(context.Background())
	return &Group{ctx: ctx, cancel: cancel}
}

// Close cancela las operaciones en vuelo y espera a que terminen.
// Después de Close ningún Slot vuelve a publicar.
func (g *Group) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	g.cancel()
	g.wg.Wait()
}

func (g *Group) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

func (g *Group) Slot() *Slot {
	return &Slot{g: g}
}

// Commit ejecuta publish sólo si la operación sigue siendo la vigente del slot
// y el grupo no se cerró. Devuelve false si se descartó.
type Commit func(publish func()) bool

type Slot struct {
	g *Group

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Run lanza fn en una goroutine y devuelve un canal que se cierra cuando fn termina.
// La operación previa del slot queda cancelada y ya no puede publicar.
func (s *Slot) Run(fn func(ctx context.Context, commit Commit)) <-chan struct{} {
	done := make(chan struct{})

	s.g.mu.Lock()
	if s.g.closed {
		s.g.mu.Unlock()
		close(done)
		return done
	}
	s.g.wg.Add(1)
	s.g.mu.Unlock()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(s.g.ctx)
	s.cancel = cancel
	s.mu.Unlock()

	commit := func(publish func()) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || s.g.isClosed() {
			return false
		}
		publish()
		return true
	}

	go func() {
		defer s.g.wg.Done()
		defer close(done)
		defer cancel()
		fn(ctx, commit)
	}()

	return done
}

// Result es lo que una operación le devuelve a su propio caller, independiente
// de lo que otras operaciones hayan publicado después.
// Superseded indica que su commit final se descartó (llamada más nueva o Close).
type Result[T any] struct {
	Value      T
	Superseded bool
}

// Do es Run con resultado: fn devuelve su valor y lo que devolvió su commit final.
// Si el grupo ya estaba cerrado fn no corre y el resultado llega con Superseded.
func Do[T any](s *Slot, fn func(ctx context.Context, commit Commit) (T, bool)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	res := Result[T]{Superseded: true}

	done := s.Run(func(ctx context.Context, commit Commit) {
		v, published := fn(ctx, commit)
		res = Result[T]{Value: v, Superseded: !published}
	})
	go func() {
		<-done
		out <- res
		close(out)
	}()
	return out
}

// Package observable publica un valor actual y notifica (push) a suscriptores en cada cambio.
// Reemplaza los contenedores observables de UI: el último Publish gana.
package observable

import (
	"context"
	"sync"
)

type Value[T any] struct {
	// pub serializa publicaciones y altas de suscriptores para que cada suscriptor
	// vea los valores en el mismo orden en que se publicaron.
	pub sync.Mutex

	mu   sync.RWMutex
	cur  T
	subs map[int]func(T)
	next int
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{
		cur:  initial,
		subs: make(map[int]func(T)),
	}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Publish reemplaza el valor y notifica a todos los suscriptores de forma síncrona.
// Un callback no debe llamar Publish sobre el mismo Value (deadlock).
func (v *Value[T]) Publish(x T) {
	v.pub.Lock()
	defer v.pub.Unlock()

	v.mu.Lock()
	v.cur = x
	subs := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(x)
	}
}

// Subscribe entrega el valor actual de inmediato y luego cada Publish.
// Devuelve la función para desuscribirse (idempotente).
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.pub.Lock()
	defer v.pub.Unlock()

	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	cur := v.cur
	v.mu.Unlock()

	fn(cur)

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Watch devuelve un canal con el último valor publicado (buffer 1: si el lector
// se atrasa, el valor pendiente se reemplaza por el más nuevo). Se cierra al terminar ctx.
func (v *Value[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	var once sync.Once
	var mu sync.Mutex
	closed := false

	unsubscribe := v.Subscribe(func(x T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- x:
		default:
			// descartar el pendiente y dejar el más nuevo
			select {
			case <-ch:
			default:
			}
			ch <- x
		}
	})

	go func() {
		<-ctx.Done()
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}()

	return ch
}

package recorder

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/domain/temperature"
	"temperature-history/internal/platform/logger"
	"temperature-history/internal/platform/observable"
	"temperature-history/internal/platform/task"
)

const DefaultRecentWindow = 24 * time.Hour

// Recorder orquesta el chequeo de permisos y el registro de una lectura.
// Todas las operaciones son asíncronas: devuelven un canal que entrega el resultado propio al terminar.
type Recorder struct {
	repo Repository
	now  func() time.Time
	log  logger.Logger

	recentWindow time.Duration
	subject      atomic.Pointer[identity.Identity]

	state  *observable.Value[State]
	recent *observable.Value[RecentList]

	tasks       *task.Group
	checkSlot   *task.Slot
	submitSlot  *task.Slot
	refreshSlot *task.Slot
}

type Options struct {
	// RecentWindow es la ventana que se relee tras un registro exitoso (default 24h).
	RecentWindow time.Duration
	Logger       logger.Logger
}

func New(repo Repository, opts Options) *Recorder {
	window := opts.RecentWindow
	if window <= 0 {
		window = DefaultRecentWindow
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	g := task.NewGroup()
	return &Recorder{
		repo:         repo,
		now:          time.Now,
		log:          log.With(map[string]any{"component": "recorder"}),
		recentWindow: window,
		state:        observable.New(Idle()),
		recent:       observable.New(RecentList{}),
		tasks:        g,
		checkSlot:    g.Slot(),
		submitSlot:   g.Slot(),
		refreshSlot:  g.Slot(),
	}
}

// State es el estado actual del recorder (push a suscriptores).
func (r *Recorder) State() *observable.Value[State] { return r.state }

// Recent es la lista de lecturas recientes, publicada por separado.
func (r *Recorder) Recent() *observable.Value[RecentList] { return r.recent }

func (r *Recorder) RecentWindow() time.Duration { return r.recentWindow }

// SetIdentity fija quién registra por defecto en Record. nil = sin identidad.
func (r *Recorder) SetIdentity(id *identity.Identity) {
	if id == nil {
		r.subject.Store(nil)
		return
	}
	cp := *id
	r.subject.Store(&cp)
}

func (r *Recorder) Identity() *identity.Identity {
	id := r.subject.Load()
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

// Close cancela operaciones en vuelo; después no se publica nada más.
func (r *Recorder) Close() {
	r.tasks.Close()
}

// ValidateInput: trim + parse + rango plausible. Nunca falla, sólo devuelve false.
func (r *Recorder) ValidateInput(text string) bool {
	v, err := temperature.ParseCelsius(text)
	if err != nil {
		return false
	}
	return temperature.IsPhysicallyPlausible(v)
}

// Outcome es el resultado propio de una operación del recorder.
type Outcome = task.Result[State]

// RecentOutcome es el resultado propio de un RefreshRecent.
type RecentOutcome = task.Result[RecentList]

// CheckPermissions publica Checking y luego Granted/Denied.
// Si la consulta falla se publica Failed con el mensaje (no se propaga al caller).
func (r *Recorder) CheckPermissions() <-chan Outcome {
	return task.Do(r.checkSlot, func(ctx context.Context, commit task.Commit) (State, bool) {
		r.publish(commit, State{Kind: KindChecking})

		ok, err := r.repo.HasAllPermissions(ctx)
		if err != nil {
			r.log.Warn("permission check failed", map[string]any{"err": err})
			return r.publish(commit, failed(err, "Error checking permissions"))
		}

		next := State{Kind: KindPermissionDenied}
		if ok {
			next = State{Kind: KindPermissionGranted}
		}
		return r.publish(commit, next)
	})
}

// Record registra con la identidad de contexto (SetIdentity) y el instante actual.
func (r *Recorder) Record(valueCelsius float64) <-chan Outcome {
	return r.RecordAs(valueCelsius, r.Identity())
}

// RecordAs registra con una identidad explícita.
// Valor fuera de rango => Failed("out of range") sin tocar el repositorio.
// Tras Recorded refresca la lista reciente; el canal entrega el resultado después de ese refresh.
// Un Recorded descartado por una llamada más nueva igual vuelve al caller: el registro existe.
func (r *Recorder) RecordAs(valueCelsius float64, subject *identity.Identity) <-chan Outcome {
	return task.Do(r.submitSlot, func(ctx context.Context, commit task.Commit) (State, bool) {
		if !temperature.IsPhysicallyPlausible(valueCelsius) {
			return r.publish(commit, State{
				Kind:    KindFailed,
				Reason:  temperature.ErrOutOfRange.Error(),
				Message: temperature.OutOfRangeMessage,
				Err:     temperature.ErrOutOfRange,
			})
		}

		r.publish(commit, State{Kind: KindSubmitting})

		now := r.now()
		id, err := r.repo.Write(ctx, valueCelsius, now, subject)
		if err != nil {
			r.log.Warn("record failed", map[string]any{"err": err})
			return r.publish(commit, failed(err, "Error recording temperature"))
		}

		st, published := r.publish(commit, State{
			Kind:         KindRecorded,
			RecordID:     id,
			ValueCelsius: valueCelsius,
			TakenAt:      now,
			Subject:      subject,
			Message:      fmt.Sprintf("Temperature recorded: %.1f°C", valueCelsius),
		})
		if published {
			<-r.RefreshRecent(now.Add(-r.recentWindow), now)
		}
		return st, published
	})
}

// RefreshRecent relee [start, end] y publica la lista reciente.
// En error conserva los items previos y deja el motivo en Reason.
func (r *Recorder) RefreshRecent(start, end time.Time) <-chan RecentOutcome {
	return task.Do(r.refreshSlot, func(ctx context.Context, commit task.Commit) (RecentList, bool) {
		items, err := r.repo.Read(ctx, start, end)
		if err != nil {
			r.log.Warn("recent refresh failed", map[string]any{"err": err})
			reason := "Error loading temperature history: " + err.Error()
			list := RecentList{From: start, To: end, Reason: reason}
			published := commit(func() {
				list = r.recent.Get()
				list.Reason = reason
				r.recent.Publish(list)
			})
			return list, published
		}

		list := RecentList{
			Items:     items,
			From:      start,
			To:        end,
			Refreshed: r.now(),
		}
		return list, commit(func() { r.recent.Publish(list) })
	})
}

// publish intenta publicar st y lo devuelve junto con el resultado del commit.
func (r *Recorder) publish(commit task.Commit, st State) (State, bool) {
	return st, commit(func() { r.state.Publish(st) })
}

func failed(err error, prefix string) State {
	return State{
		Kind:    KindFailed,
		Reason:  err.Error(),
		Message: prefix + ": " + err.Error(),
		Err:     err,
	}
}

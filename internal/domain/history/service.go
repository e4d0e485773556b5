package history

import (
	"context"
	"sort"
	"time"

	"temperature-history/internal/domain/temperature"
	"temperature-history/internal/platform/logger"
	"temperature-history/internal/platform/observable"
	"temperature-history/internal/platform/task"
)

// Browser carga, ordena y borra lecturas del historial.
// Publica el estado y, por separado, la lista vigente de lecturas.
type Browser struct {
	repo Repository
	log  logger.Logger

	state    *observable.Value[State]
	readings *observable.Value[[]temperature.DisplayReading]

	tasks      *task.Group
	loadSlot   *task.Slot
	deleteSlot *task.Slot
}

type Options struct {
	Logger logger.Logger
}

func New(repo Repository, opts Options) *Browser {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	g := task.NewGroup()
	return &Browser{
		repo:       repo,
		log:        log.With(map[string]any{"component": "history"}),
		state:      observable.New(Idle()),
		readings:   observable.New([]temperature.DisplayReading{}),
		tasks:      g,
		loadSlot:   g.Slot(),
		deleteSlot: g.Slot(),
	}
}

func (b *Browser) State() *observable.Value[State] { return b.state }

func (b *Browser) Readings() *observable.Value[[]temperature.DisplayReading] { return b.readings }

func (b *Browser) Close() {
	b.tasks.Close()
}

// Outcome es el resultado propio de LoadHistory o DeleteReading.
type Outcome = task.Result[State]

// LoadHistory lee [start, end] y publica Loaded con las lecturas más nuevas primero.
// En error publica Failed y vacía la lista.
func (b *Browser) LoadHistory(start, end time.Time) <-chan Outcome {
	return task.Do(b.loadSlot, func(ctx context.Context, commit task.Commit) (State, bool) {
		commit(func() { b.state.Publish(State{Kind: KindLoading}) })

		items, err := b.repo.Read(ctx, start, end)
		if err != nil {
			b.log.Warn("history load failed", map[string]any{"err": err})
			st := failed(err, "Error loading temperature history")
			return st, commit(func() {
				b.readings.Publish([]temperature.DisplayReading{})
				b.state.Publish(st)
			})
		}

		list := make([]temperature.DisplayReading, 0, len(items))
		for _, m := range items {
			list = append(list, temperature.ToDisplayReading(m))
		}
		SortNewestFirst(list)

		b.log.Debug("history loaded", map[string]any{"count": len(list)})
		st := Loaded(list)
		return st, commit(func() {
			b.readings.Publish(list)
			b.state.Publish(st)
		})
	})
}

// DeleteReading borra un registro. Sólo tras confirmar la plataforma se quita de la lista;
// si falla, la lista queda igual.
// Un borrado confirmado vuelve como Loaded aunque otra llamada haya ganado el slot.
func (b *Browser) DeleteReading(recordID string) <-chan Outcome {
	return task.Do(b.deleteSlot, func(ctx context.Context, commit task.Commit) (State, bool) {
		commit(func() { b.state.Publish(State{Kind: KindDeleting, RecordID: recordID}) })

		if err := b.repo.Delete(ctx, recordID); err != nil {
			b.log.Warn("history delete failed", map[string]any{"record_id": recordID, "err": err})
			st := failed(err, "Error deleting temperature reading")
			st.RecordID = recordID
			return st, commit(func() { b.state.Publish(st) })
		}

		var st State
		published := commit(func() {
			list := without(b.readings.Get(), recordID)
			b.readings.Publish(list)
			st = Loaded(list)
			b.state.Publish(st)
		})
		if !published {
			st = Loaded(without(b.readings.Get(), recordID))
		}
		return st, published
	})
}

// SortNewestFirst ordena por TakenAt descendente; empates conservan el orden de llegada.
func SortNewestFirst(list []temperature.DisplayReading) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TakenAt.After(list[j].TakenAt)
	})
}

func without(list []temperature.DisplayReading, recordID string) []temperature.DisplayReading {
	out := make([]temperature.DisplayReading, 0, len(list))
	for _, r := range list {
		if r.RecordID == recordID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func failed(err error, prefix string) State {
	return State{
		Kind:    KindFailed,
		Reason:  err.Error(),
		Message: prefix + ": " + err.Error(),
		Err:     err,
	}
}

package router

import (
	"net/http"

	"temperature-history/internal/adapters/healthplatform/gateway"
	"temperature-history/internal/adapters/healthplatform/memory"
	"temperature-history/internal/docs"
	"temperature-history/internal/domain/history"
	"temperature-history/internal/domain/recorder"
	"temperature-history/internal/domain/temperature"
	"temperature-history/internal/middleware"
	"temperature-history/internal/platform/logger"
	"temperature-history/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// Opcionales: si no vienen se arma todo sobre una plataforma in-memory con permisos otorgados (modo dev).
	Manager  *temperature.Manager
	Recorder *recorder.Recorder
	History  *history.Browser

	// Registry para /metrics; nil => no se expone.
	Registry *prometheus.Registry

	// Gateway != nil monta /v1/... con ese backend.
	Gateway *gateway.Options
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.SubjectContext())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Registry != nil {
		r.Handle("/metrics", metrics.Handler(opts.Registry))
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		httpSwagger.URL("/swagger/doc.json"),
	))

	mgr := opts.Manager
	if mgr == nil {
		mgr = temperature.NewManager(memory.NewGranted(), temperature.Options{Logger: log})
	}
	rec := opts.Recorder
	if rec == nil {
		rec = recorder.New(mgr, recorder.Options{Logger: log})
	}
	hist := opts.History
	if hist == nil {
		hist = history.New(mgr, history.Options{Logger: log})
	}

	// Rutas por módulo
	temperature.RegisterRoutes(r, mgr)
	recorder.RegisterRoutes(r, rec)
	history.RegisterRoutes(r, hist)

	if opts.Gateway != nil {
		g := *opts.Gateway
		if g.Logger == nil {
			g.Logger = log
		}
		gateway.Mount(r, g)
	}

	return r
}

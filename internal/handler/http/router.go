package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/stclare-edu/dtr-backend-go/internal/config"
)

func NewRouter(cfg *config.Config, timeRecordHandler TimeRecordHandler, payrollHandler PayrollHandler, auditHandler AuditHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dtr-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/time-records", func(r chi.Router) {
			r.Post("/", timeRecordHandler.Upsert)
			r.Get("/", timeRecordHandler.List)
			r.Post("/mark-paid", timeRecordHandler.MarkPaid)
			r.Get("/{id}", timeRecordHandler.Get)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/", payrollHandler.Generate)
			r.Get("/", payrollHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", payrollHandler.Get)
				r.Patch("/", payrollHandler.Update)
				r.Post("/mark-paid", payrollHandler.MarkPaid)
				r.Post("/cancel", payrollHandler.Cancel)
			})
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/orphans", auditHandler.ListOrphans)
			r.Post("/orphans/repair", auditHandler.RepairOrphans)
		})
	})
	return r
}

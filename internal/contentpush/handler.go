package contentpush

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/five82/statusbox/internal/cmsschema"
)

// Runner performs one content update.
type Runner interface {
	Run(ctx context.Context) (FileUpdateResult, error)
}

const successBody = "Content updated successfully!"

// NewRouter exposes the update function and the schema document.
func NewRouter(runner Runner, schema cmsschema.Schema, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	update := updateHandler(runner, logger)
	for _, path := range []string{"/.netlify/functions/update-content", "/update-content"} {
		r.Get(path, update)
		r.Post(path, update)
	}
	r.Get("/admin/schema.yaml", schemaHandler(schema, logger))
	return r
}

func updateHandler(runner Runner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if _, err := runner.Run(r.Context()); err != nil {
			logger.Error("content update failed", zap.String("request_id", reqID), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprintf(w, "Error: %v", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(successBody))
	}
}

func schemaHandler(schema cmsschema.Schema, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := schema.Marshal()
		if err != nil {
			logger.Error("schema marshal failed", zap.Error(err))
			http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	}
}

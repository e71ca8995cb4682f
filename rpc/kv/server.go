package kv

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/iotaledger/iota-trust/kvstore"
	"github.com/iotaledger/iota-trust/libs/log"
)

// Backend returns the encoded item stored under a key, or nil if there is
// none.
type Backend interface {
	GetRaw(ctx context.Context, k kvstore.Key) ([]byte, error)
}

// Options configure the handler returned by NewHandler.
type Options struct {
	// CORSAllowedOrigins enables CORS when not empty.
	CORSAllowedOrigins []string
	// Metrics exposes /metrics when set.
	Metrics bool
}

type errorResponse struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

// NewHandler serves backend as
//
//	GET /health
//	GET /metrics
//	GET /{item_type}/{key}
//
// A hit is answered with 200 and the encoded item, a miss with 204. A bad
// item type or key gets 400 and a backend failure 500, both with a JSON
// error body.
func NewHandler(backend Backend, logger log.Logger, opts Options) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
	r.HandleFunc("/{item_type}/{key}", itemHandler(backend, logger)).Methods(http.MethodGet)

	var h http.Handler = r
	if len(opts.CORSAllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
		}).Handler(r)
	}
	return h
}

func itemHandler(backend Backend, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		key, err := kvstore.ParseKey(vars["item_type"], vars["key"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_key", err.Error())
			return
		}

		bz, err := backend.GetRaw(r.Context(), key)
		if err != nil {
			logger.Error("failed to read key", "key", key, "err", err)
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if bz == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(bz)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: msg})
}

package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	vektria "github.com/vektria-cloud/vektria-go"
)

// Error codes returned in JSON error responses.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeDataMismatch       = "data_mismatch"
	codeCollectionNotFound = "collection_not_found"
	codeCollectionExists   = "collection_already_exists"
	codeUpsertAutoID       = "upsert_auto_id"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a known error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the schema registry over HTTP.
type Server struct {
	client        *vektria.Client
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server around a vektria client.
func NewServer(client *vektria.Client, logger *zap.Logger) *Server {
	s := &Server{
		client: client,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(vektria.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(vektria.ErrCollectionExists, http.StatusConflict, codeCollectionExists),
		sentinelHandler(vektria.ErrUpsertAutoID, http.StatusBadRequest, codeUpsertAutoID),
		sentinelHandler(vektria.ErrDataNotMatch, http.StatusBadRequest, codeDataMismatch),
		sentinelHandler(vektria.ErrPrimaryKey, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrPartitionKey, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrAutoID, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrParam, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrFieldType, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrFieldsType, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrDataTypeNotSupported, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrCannotInferSchema, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(vektria.ErrSchemaNotReady, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Register mounts the API routes on a router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.healthCheck)
	r.Get("/metrics", s.metrics)

	r.Route("/v1/collections", func(r chi.Router) {
		r.Post("/", s.createCollection)
		r.Get("/", s.listCollections)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.getCollection)
			r.Delete("/", s.deleteCollection)
			r.Post("/insert", s.insert)
			r.Post("/upsert", s.upsert)
		})
	})
}

type createCollectionRequest struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

// createCollection handles POST /v1/collections.
func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Collection name is required")
		return
	}

	schema, err := vektria.CollectionSchemaFromMap(req.Schema)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if err := s.client.CreateCollection(r.Context(), req.Name, schema); err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"name":   req.Name,
		"schema": schema.ToMap(),
	})
}

// listCollections handles GET /v1/collections.
func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	names, err := s.client.ListCollections(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": names})
}

// getCollection handles GET /v1/collections/{name}.
func (s *Server) getCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	schema, err := s.client.GetCollection(r.Context(), name)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":   name,
		"schema": schema.ToMap(),
	})
}

// deleteCollection handles DELETE /v1/collections/{name}.
func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.client.DropCollection(r.Context(), name); err != nil {
		s.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type dataRequest struct {
	// Columns is a tabular payload: named, typed columns.
	Columns *vektria.Table `json:"columns,omitempty"`
	// Data is a positional payload: one value list per schema field.
	Data []any `json:"data,omitempty"`
}

func (req *dataRequest) payload() (any, error) {
	switch {
	case req.Columns != nil && req.Data != nil:
		return nil, errors.New("request must carry either columns or data, not both")
	case req.Columns != nil:
		return req.Columns, nil
	case req.Data != nil:
		return req.Data, nil
	default:
		return nil, errors.New("request must carry columns or data")
	}
}

// insert handles POST /v1/collections/{name}/insert.
func (s *Server) insert(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, "inserted", s.client.Insert)
}

// upsert handles POST /v1/collections/{name}/upsert.
func (s *Server) upsert(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, "upserted", s.client.Upsert)
}

func (s *Server) submit(
	w http.ResponseWriter, r *http.Request, verb string,
	op func(ctx context.Context, collection string, data any) (int, error),
) {
	name := chi.URLParam(r, "name")

	var req dataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	data, err := req.payload()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	count, err := op(r.Context(), name, data)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collection": name,
		verb:         count,
	})
}

// healthCheck handles GET /healthz.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeMessage returns the error message when it stems from a known sentinel,
// hiding internals otherwise.
func safeMessage(err error) string {
	sentinels := []error{
		vektria.ErrCollectionNotFound,
		vektria.ErrCollectionExists,
		vektria.ErrUpsertAutoID,
		vektria.ErrDataNotMatch,
		vektria.ErrPrimaryKey,
		vektria.ErrPartitionKey,
		vektria.ErrAutoID,
		vektria.ErrParam,
		vektria.ErrFieldType,
		vektria.ErrFieldsType,
		vektria.ErrDataTypeNotSupported,
		vektria.ErrCannotInferSchema,
		vektria.ErrSchemaNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	msg := safeMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

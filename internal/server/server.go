// Package server exposes the swarm checker over HTTP: well-formedness
// and projection checks as JSON endpoints, backed by a protocol catalog
// (pkg/store) so a client can check a protocol by name instead of
// resending its JSON on every request.
//
// The teacher's go.mod already requires github.com/go-chi/chi/v5, but no
// teacher file ever imports it — this package is its first use, routing
// requests the way chi's own middleware examples do (chi.NewRouter,
// middleware.RequestID/Recoverer, route groups under /v1).
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/swarmcheck/pkg/loader"
	"github.com/matzehuels/swarmcheck/pkg/store"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
	"github.com/matzehuels/swarmcheck/pkg/swarmapi"
	"github.com/matzehuels/swarmcheck/pkg/swarmviz"
)

// Server wires the swarm checker and a protocol catalog behind an HTTP
// API.
type Server struct {
	store  store.Store
	logger *log.Logger
}

// New creates a Server backed by st. logger may be nil, in which case
// log.Default() is used.
func New(st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, logger: logger}
}

// Router builds the chi router exposing every endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/check-swarm", s.handleCheckSwarm)
		r.Post("/check-projection", s.handleCheckProjection)

		r.Route("/protocols", func(r chi.Router) {
			r.Get("/", s.handleListProtocols)
			r.Put("/{name}", s.handlePutProtocol)
			r.Get("/{name}", s.handleGetProtocol)
			r.Delete("/{name}", s.handleDeleteProtocol)
			r.Get("/{name}/render", s.handleRenderProtocol)
		})
	})

	return r
}

// logRequests tags every request with a correlation id (independent of
// chi's own sequential middleware.RequestID), surfaced in both the log
// line and an X-Correlation-ID response header so a client can reference
// a specific request when reporting an issue.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		correlationID := uuid.NewString()
		w.Header().Set("X-Correlation-ID", correlationID)

		next.ServeHTTP(w, r)

		s.logger.Debugf("%s %s id=%s (%s)", r.Method, r.URL.Path, correlationID, time.Since(start).Round(time.Millisecond))
	})
}

type checkSwarmRequest struct {
	Protocol      json.RawMessage `json:"protocol"`
	Subscriptions json.RawMessage `json:"subscriptions"`
}

type checkProjectionRequest struct {
	Protocol      json.RawMessage `json:"protocol"`
	Subscriptions json.RawMessage `json:"subscriptions"`
	Role          string          `json:"role"`
	Machine       json.RawMessage `json:"machine"`
}

func (s *Server) handleCheckSwarm(w http.ResponseWriter, r *http.Request) {
	var req checkSwarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	result := swarmapi.CheckSwarm(string(req.Protocol), string(req.Subscriptions))
	writeJSONString(w, result)
}

func (s *Server) handleCheckProjection(w http.ResponseWriter, r *http.Request) {
	var req checkProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	result := swarmapi.CheckProjection(string(req.Protocol), string(req.Subscriptions), req.Role, string(req.Machine))
	writeJSONString(w, result)
}

func (s *Server) handleListProtocols(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handlePutProtocol(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body struct {
		ProtocolJSON      string `json:"protocolJson"`
		SubscriptionsJSON string `json:"subscriptionsJson"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	p := &store.Protocol{Name: name, ProtocolJSON: body.ProtocolJSON, SubscriptionsJSON: body.SubscriptionsJSON}
	if err := s.store.Put(r.Context(), p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProtocol(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.store.Get(r.Context(), name)
	if err == store.ErrNotFound {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProtocol(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderProtocol(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.store.Get(r.Context(), name)
	if err == store.ErrNotFound {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var raw swarm.RawProtocol
	if err := json.Unmarshal([]byte(p.ProtocolJSON), &raw); err != nil {
		http.Error(w, fmt.Sprintf("decode protocol: %v", err), http.StatusInternalServerError)
		return
	}
	res, _, loadErrs := loader.Load(raw, nil)
	if len(loadErrs) > 0 {
		http.Error(w, loadErrs[0], http.StatusUnprocessableEntity)
		return
	}

	dot := swarmviz.ProtocolDOT(res.Graph, res.Initial)
	svg, err := swarmviz.RenderSVG(dot)
	if err != nil {
		http.Error(w, fmt.Sprintf("render: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONString(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

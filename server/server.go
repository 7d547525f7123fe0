// Package server exposes the engine over HTTP: a JSON graph API, rendered
// SVG frames, and a small embedded viewer page that polls them.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/TFMV/canopy/engine"
	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/ingest"
	"github.com/TFMV/canopy/layout"
	"github.com/TFMV/canopy/render"
)

//go:embed index.html
var indexHTML []byte

// Server serves one engine instance.
type Server struct {
	eng *engine.Engine
	log *zap.Logger
}

// New wraps an engine. A nil logger logs nowhere.
func New(eng *engine.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{eng: eng, log: log.Named("server")}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGetGraph)
		r.Post("/graph", s.handlePostGraph)
		r.Get("/stats", s.handleStats)
		r.Get("/frame.svg", s.handleFrame)
		r.Get("/overview.svg", s.handleOverview)
		r.Post("/layout", s.handleLayout)
		r.Post("/search", s.handleSearch)
		r.Post("/view/fit", s.handleFit)
		r.Post("/nodes/{id}/toggle", s.handleToggle)
		r.Post("/nodes/{id}/children", s.handleAddChild)
		r.Delete("/nodes/{id}", s.handleDelete)
	})

	return r
}

// ListenAndServe runs the HTTP server and the engine's frame loop until the
// context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Frames are rendered per request; the loop only needs to advance the
	// simulation and interaction clocks.
	go s.eng.Run(ctx, nil, nil)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetGraph encodes a snapshot, never the live graph: the frame loop
// keeps writing node positions while this handler runs.
func (s *Server) handleGetGraph(w http.ResponseWriter, _ *http.Request) {
	nodes, edges := s.eng.Snapshot()
	doc := ingest.Document{
		Nodes: make([]*graph.Node, len(nodes)),
		Edges: make([]*graph.Edge, len(edges)),
	}
	for i := range nodes {
		doc.Nodes[i] = &nodes[i]
	}
	for i := range edges {
		doc.Edges[i] = &edges[i]
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePostGraph(w http.ResponseWriter, r *http.Request) {
	g, err := ingest.FromJSON(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.eng.SetData(g)
	s.writeJSON(w, http.StatusOK, s.eng.Stats())
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.eng.Stats())
}

// handleFrame renders the current frame. Each request gets its own canvas so
// concurrent requests do not interleave output.
func (s *Server) handleFrame(w http.ResponseWriter, _ *http.Request) {
	c := render.NewSVGCanvas()
	s.eng.RenderTo(c)
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(c.Bytes())
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	c := render.NewSVGCanvas()
	s.eng.RenderOverview(c)
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(c.Bytes())
}

type layoutRequest struct {
	Mode      string `json:"mode,omitempty"`
	Collision string `json:"collision,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Mode != "" {
		if err := s.eng.SetLayoutMode(req.Mode); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.Collision != "" {
		s.eng.SetCollisionMode(layout.CollisionMode(req.Collision))
	}
	s.writeJSON(w, http.StatusOK, s.eng.Stats())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var results []engine.SearchResult
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.eng.SetSearchResults(results)
	s.writeJSON(w, http.StatusOK, map[string]int{"matches": len(results)})
}

func (s *Server) handleFit(w http.ResponseWriter, _ *http.Request) {
	s.eng.ZoomToFit()
	s.writeJSON(w, http.StatusOK, s.eng.Transform())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.eng.ToggleCollapse(chi.URLParam(r, "id"))
	s.writeJSON(w, http.StatusOK, s.eng.Stats())
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	n, err := s.eng.AddChild(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.eng.DeleteSubtree(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.eng.Stats())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  strconv.Itoa(status),
	})
}

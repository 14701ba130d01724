// Package preview serves rendered slides over HTTP: PNG snapshots for
// thumbnails, display lists for browser canvases, and a WebSocket that
// streams display lists on request.
package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/VantageDataChat/GoSlides/export"
	"github.com/VantageDataChat/GoSlides/internal/store"
	"github.com/VantageDataChat/GoSlides/render/record"
	"github.com/VantageDataChat/GoSlides/scene"
)

// Documents is the read side of the document store.
type Documents interface {
	List(ctx context.Context) ([]store.Summary, error)
	Load(ctx context.Context, id string) (*scene.Document, error)
}

// Server serves slide previews.
type Server struct {
	docs     Documents
	exp      *export.Exporter
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a Server. A nil exp uses an exporter with default options
// and a nil log uses slog.Default().
func New(docs Documents, exp *export.Exporter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if exp == nil {
		exp = export.New(&export.Options{Logger: log})
	}
	return &Server{
		docs: docs,
		exp:  exp,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
		},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/presentations", s.listPresentations).Methods(http.MethodGet)
	r.HandleFunc("/presentations/{id}", s.getPresentation).Methods(http.MethodGet)
	r.HandleFunc("/presentations/{id}/slides/{slideID:[^/.]+}.png", s.slidePNG).Methods(http.MethodGet)
	r.HandleFunc("/presentations/{id}/slides/{slideID}/ops", s.slideOps).Methods(http.MethodGet)
	r.HandleFunc("/presentations/{id}/live", s.live)
	r.Use(s.logRequests)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": export.Version})
}

func (s *Server) listPresentations(w http.ResponseWriter, r *http.Request) {
	list, err := s.docs.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getPresentation(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// slide loads the document and slide named by the route.
func (s *Server) slide(r *http.Request, slideID string) (*scene.Slide, error) {
	doc, err := s.docs.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		return nil, err
	}
	sl := doc.Slide(slideID)
	if sl == nil {
		return nil, scene.ErrSlideNotFound
	}
	return sl, nil
}

func (s *Server) slidePNG(w http.ResponseWriter, r *http.Request) {
	sl, err := s.slide(r, mux.Vars(r)["slideID"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	img, err := s.exp.RenderSlide(r.Context(), sl)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.EncodeImage(&buf, img, export.FormatPNG, 0); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// ops records the display list of a slide.
func (s *Server) ops(ctx context.Context, sl *scene.Slide) ([]record.Op, error) {
	rec := record.New(s.exp.Fonts())
	if err := s.exp.Draw(ctx, rec, sl); err != nil {
		return nil, err
	}
	return rec.Ops(), nil
}

func (s *Server) slideOps(w http.ResponseWriter, r *http.Request) {
	sl, err := s.slide(r, mux.Vars(r)["slideID"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ops, err := s.ops(r.Context(), sl)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ops)
}

// LiveRequest asks the live socket for a slide's display list.
type LiveRequest struct {
	SlideID string `json:"slideId"`
}

// LiveResponse answers a LiveRequest.
type LiveResponse struct {
	SlideID string      `json:"slideId"`
	Ops     []record.Op `json:"ops,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.docs.Load(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}
	defer conn.Close()
	s.log.Info("live preview connected", slog.String("presentation", id))

	for {
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("live preview read", slog.Any("err", err))
			}
			return
		}
		resp := LiveResponse{SlideID: req.SlideID}
		// reload per request so edits saved elsewhere show up
		if sl, err := s.slide(r, req.SlideID); err != nil {
			resp.Error = err.Error()
		} else if ops, err := s.ops(r.Context(), sl); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Ops = ops
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Debug("live preview write", slog.Any("err", err))
			return
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, scene.ErrSlideNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return
	}
	if status == http.StatusInternalServerError {
		s.log.Error("preview request failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs the server on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("preview server listening", slog.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

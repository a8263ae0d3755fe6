package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/output"
	"github.com/mj1618/arrange/internal/platform"
	"github.com/mj1618/arrange/internal/preview"
)

const (
	defaultPreviewWidth  = 480
	defaultPreviewHeight = 300
	maxPreviewSide       = 4096
)

// Router returns the REST API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/state", s.getState)
	r.Get("/presets", s.getPresets)
	r.Post("/presets/{index}", s.postPreset)
	r.Post("/apply", s.postApply)
	r.Post("/undo", s.postUndo)
	r.Post("/swap", s.postSwap)
	r.Get("/preview.png", s.getPreview)
	r.Get("/layouts", s.getLayouts)
	r.Post("/layouts/{ref}/trigger", s.postTrigger)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}

// locked syncs the session under sessionMu before calling fn.
func (s *Server) locked(w http.ResponseWriter, fn func()) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if err := s.sync(); err != nil {
		writeError(w, err)
		return
	}
	fn()
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	s.locked(w, func() { writeJSON(w, http.StatusOK, output.State(s.session)) })
}

func (s *Server) getPresets(w http.ResponseWriter, _ *http.Request) {
	s.locked(w, func() { writeJSON(w, http.StatusOK, output.Presets(s.session)) })
}

func (s *Server) postPreset(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("preset index must be an integer"))
		return
	}
	s.locked(w, func() {
		if err := s.session.SelectPreset(index); err != nil {
			writeError(w, err)
			return
		}
		s.changed()
		writeJSON(w, http.StatusOK, output.Action(s.session, "select_preset", nil))
	})
}

func (s *Server) postApply(w http.ResponseWriter, _ *http.Request) {
	s.locked(w, func() {
		report, err := s.session.Apply()
		s.changed()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, output.Apply(s.session, "apply", report, nil))
	})
}

func (s *Server) postUndo(w http.ResponseWriter, _ *http.Request) {
	s.locked(w, func() {
		kind := s.session.Undo()
		s.changed()
		writeJSON(w, http.StatusOK, output.UndoResult{OK: true, Action: "undo", Undid: kind, Status: s.session.Status()})
	})
}

type swapRequest struct {
	From layout.Position `json:"from"`
	To   layout.Position `json:"to"`
}

func (s *Server) postSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid swap request: "+err.Error()))
		return
	}
	s.locked(w, func() {
		if !s.session.SwapBlocks(req.From, req.To) {
			writeError(w, arrange.ErrOutOfRange)
			return
		}
		s.changed()
		writeJSON(w, http.StatusOK, output.Action(s.session, "swap", nil))
	})
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	width, err := sizeParam(r, "w", defaultPreviewWidth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	height, err := sizeParam(r, "h", defaultPreviewHeight)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	s.locked(w, func() {
		img, err := preview.Render(s.session.Current(), s.session.Assignments(), width, height, s.session.Gutter())
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := preview.Encode(w, img); err != nil {
			s.log.Warn("failed to encode preview", "err", err)
		}
	})
}

func (s *Server) getLayouts(w http.ResponseWriter, r *http.Request) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	layouts, err := s.session.Layouts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.Layouts(layouts))
}

func (s *Server) postTrigger(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	s.locked(w, func() {
		saved, err := s.session.FindLayout(r.Context(), ref)
		if err != nil {
			writeError(w, err)
			return
		}
		if s.cache != nil {
			s.cache.Invalidate()
		}
		report, err := s.session.TriggerLayout(r.Context(), saved)
		s.changed()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, output.Apply(s.session, "trigger_layout", report, nil))
	})
}

func sizeParam(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxPreviewSide {
		return 0, errors.New(key + " must be between 1 and 4096")
	}
	return n, nil
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func errorBody(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// statusFor maps session errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, arrange.ErrOutOfRange),
		errors.Is(err, arrange.ErrInvalidPreset),
		errors.Is(err, arrange.ErrEmptyInstruction):
		return http.StatusBadRequest
	case errors.Is(err, arrange.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, arrange.ErrNoDisplay),
		errors.Is(err, arrange.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, platform.ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = output.WriteJSON(w, v, false)
}

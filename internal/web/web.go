package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"handdrawn/app"
	"handdrawn/hal"
	appLog "handdrawn/internal/log"
)

// Face is the part of the application the web surface reads.
type Face interface {
	Status() app.Status
	Trigger()
}

// Server exposes the face status and a PNG snapshot of the panel.
type Server struct {
	face   Face
	fb     hal.Framebuffer
	router *mux.Router
	srv    *http.Server
}

// NewServer constructs a new Server. fb may be nil, in which case /preview.png
// answers 404.
func NewServer(face Face, fb hal.Framebuffer) *Server {
	s := &Server{
		face:   face,
		fb:     fb,
		router: mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.Use(logRequests)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/face", s.handleFace).Methods(http.MethodGet)
	s.router.HandleFunc("/api/refresh", s.handleRefresh).Methods(http.MethodPost)
	s.router.HandleFunc("/preview.png", s.handlePreview).Methods(http.MethodGet)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		appLog.Info("web: listening", "addr", "http://"+addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleFace(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.face.Status())
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	s.face.Trigger()
	w.WriteHeader(http.StatusAccepted)
}

// handlePreview encodes the current panel contents. ?scale=N (1-4) enlarges it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.fb == nil || s.fb.Format() != hal.PixelFormatRGB565 {
		writeError(w, http.StatusNotFound, "no framebuffer")
		return
	}

	scale := 1
	if v := r.URL.Query().Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 4 {
			writeError(w, http.StatusBadRequest, "scale must be 1-4")
			return
		}
		scale = n
	}

	pixels, ok := snapshot(s.fb)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "framebuffer has no frame memory")
		return
	}
	img := toRGBA(pixels, s.fb.Width(), s.fb.Height(), s.fb.StrideBytes(), scale)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		appLog.Error("web: encode preview", err)
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func snapshot(fb hal.Framebuffer) ([]byte, bool) {
	n := fb.StrideBytes() * fb.Height()
	if sn, ok := fb.(hal.Snapshotter); ok {
		buf := make([]byte, n)
		return buf, sn.SnapshotRGB565(buf) == n
	}
	src := fb.Buffer()
	if len(src) < n {
		return nil, false
	}
	return append([]byte(nil), src[:n]...), true
}

func toRGBA(pixels []byte, w, h, stride, scale int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*stride + x*2
			r, g, b := hal.RGB888(uint16(pixels[off]) | uint16(pixels[off+1])<<8)
			c := color.RGBA{R: r, G: g, B: b, A: 255}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		appLog.Debug("web: request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

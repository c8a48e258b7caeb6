package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cloudjuke/internal/core"
	"cloudjuke/internal/flood"
)

// ToolHandler executes the agent-facing operations.
type ToolHandler interface {
	SearchSongs(ctx context.Context, keyword string) (*core.SearchResult, error)
	PlaySong(ctx context.Context, songID int64, chatKey string) (string, error)
}

// GateStats exposes flood gate occupancy for the active-chats gauge.
type GateStats interface {
	GetStats() flood.Stats
}

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	tools   ToolHandler
	metrics *Metrics
}

func NewServer(config *core.ServerConfig, tools ToolHandler, gate GateStats, metrics *Metrics, logger *zap.Logger) *Server {
	s := &Server{
		config:  config,
		logger:  logger,
		tools:   tools,
		metrics: metrics,
	}

	if gate != nil {
		metrics.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "cloudjuke_flood_active_chats",
				Help: "Chats currently tracked by the flood gate",
			},
			func() float64 { return float64(gate.GetStats().ActiveChats) },
		))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/tools/search_songs", s.handleSearchSongs)
	mux.HandleFunc("/v1/tools/play_song", s.handlePlaySong)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"cloudjuke"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"cloudjuke"}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>CloudJuke</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">🎵 CloudJuke</h1>
    <p>NetEase Cloud Music search and playback tools for chat agents</p>

    <h2>Tools</h2>
    <div class="endpoint">🔍 POST /v1/tools/search_songs - Search the catalog</div>
    <div class="endpoint">▶️ POST /v1/tools/play_song - Deliver a song into a chat</div>

    <h2>Endpoints</h2>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`))
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

type searchRequest struct {
	Keyword string `json:"keyword"`
}

type searchResponse struct {
	Message     string `json:"message"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

type playRequest struct {
	SongID  int64  `json:"song_id"`
	ChatKey string `json:"chat_key"`
}

type playResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "ok"
	defer func() {
		s.metrics.recordTool("search_songs", status, time.Since(start).Seconds())
	}()

	if r.Method != http.MethodPost {
		status = "method_not_allowed"
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "bad_request"
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.tools.SearchSongs(r.Context(), req.Keyword)
	if err != nil {
		status = "error"
		s.logger.Error("search_songs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Message:     result.Message,
		ImageBase64: result.ImageBase64,
	})
}

func (s *Server) handlePlaySong(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "ok"
	defer func() {
		s.metrics.recordTool("play_song", status, time.Since(start).Seconds())
	}()

	if r.Method != http.MethodPost {
		status = "method_not_allowed"
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "bad_request"
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := s.tools.PlaySong(r.Context(), req.SongID, req.ChatKey)
	if err != nil {
		status = "error"
		s.logger.Error("play_song failed",
			zap.Int64("songID", req.SongID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delivery failed")
		return
	}

	writeJSON(w, http.StatusOK, playResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Package httpapi serves the relay over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vet-chatter/internal/analytics"
	"vet-chatter/internal/locale"
	"vet-chatter/internal/relay"
	"vet-chatter/internal/storage"
)

type Options struct {
	Provider       string
	AllowedOrigins []string
	MaxUploadBytes int64
	Recorder       storage.Recorder
}

type Server struct {
	relay   *relay.Service
	opts    Options
	engine  *gin.Engine
	server  *http.Server
	started time.Time
	nowFunc func() time.Time
}

func New(svc *relay.Service, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	s := &Server{
		relay:   svc,
		opts:    opts,
		started: time.Now(),
		nowFunc: time.Now,
	}
	s.engine = gin.New()
	Setup(s.engine, opts.AllowedOrigins)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/stats", s.handleStats)
	s.engine.POST("/chat", s.handleChat)
	s.engine.POST("/clear", s.handleClear)
}

func (s *Server) Handler() http.Handler { return s.engine }

// Start blocks serving on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("🌐 Starting HTTP server on %s", addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": locale.Welcome()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": s.opts.Provider,
		"uptime":   time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleChat(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)

	// Parses the multipart form, so the fields below are available after it.
	data, err := readImage(c)

	req := relay.ChatRequest{
		SessionID:   c.PostForm("session_id"),
		Image:       data,
		UserMessage: c.PostForm("user_message"),
		UserReply:   c.PostForm("user_reply"),
		Lang:        c.DefaultPostForm("lang", string(locale.Default)),
	}

	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			lang, _ := locale.Parse(req.Lang)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": locale.Text(lang, locale.MsgImageTooLarge)})
			return
		}
		if !errors.Is(err, http.ErrMissingFile) {
			log.Printf("⚠️ failed to read uploaded image: %v", err)
		}
	}

	res, err := s.relay.Chat(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": res.Response})
}

func (s *Server) handleClear(c *gin.Context) {
	msg, err := s.relay.Reset(c.PostForm("session_id"), c.DefaultPostForm("lang", string(locale.Default)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": msg})
}

func (s *Server) handleStats(c *gin.Context) {
	day := s.nowFunc().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	var events []storage.Event
	if s.opts.Recorder != nil {
		loaded, err := s.opts.Recorder.LoadInteractions()
		if err != nil {
			log.Printf("❌ failed to load interactions: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": locale.Text(locale.Default, locale.MsgInternal)})
			return
		}
		events = loaded
	}
	stats := analytics.AnalyzeDay(events, day)
	stats.ActiveSessions = len(s.relay.History().Sessions())
	c.JSON(http.StatusOK, stats)
}

func readImage(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *gin.Context, err error) {
	var vErr *relay.ValidationError
	var upErr *relay.UpstreamError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": vErr.Message()})
	case errors.As(err, &upErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": upErr.Message()})
	default:
		log.Printf("❌ unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": locale.Text(locale.Default, locale.MsgInternal)})
	}
}

// Package relay exposes the dispatcher over HTTP for callers that cannot
// link the Go library (cron jobs, shell scripts, other services).
package relay

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"alerting/pkg/alert"
	logx "alerting/pkg/logx"
)

const (
	defaultAddr     = "127.0.0.1:8089"
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

type Config struct {
	Addr  string
	Token string

	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server serves POST /v1/alerts and GET /healthz.
//
// The dispatcher is swapped atomically on config reload; in-flight requests
// finish on the dispatcher they started with.
type Server struct {
	cfg    Config
	log    logx.Logger
	router *gin.Engine
	disp   atomic.Pointer[alert.Dispatcher]

	mu   sync.Mutex
	addr string
}

func New(cfg Config, d *alert.Dispatcher, log logx.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("relay requires a dispatcher")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = shutdownTimeout
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{cfg: cfg, log: log}
	s.disp.Store(d)

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.GET("/healthz", s.handleHealth)
	api := router.Group("/v1")
	if cfg.Token != "" {
		api.Use(s.requireToken())
	}
	api.POST("/alerts", s.handleAlert)
	s.router = router
	return s, nil
}

// Handler returns the HTTP handler; used by tests and embedding callers.
func (s *Server) Handler() http.Handler { return s.router }

// SetDispatcher replaces the dispatcher used for new requests.
func (s *Server) SetDispatcher(d *alert.Dispatcher) {
	if d != nil {
		s.disp.Store(d)
	}
}

// Addr returns the bound address once Start is listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start listens and serves until ctx is done, then shuts down gracefully.
// ready, if non-nil, is called with the bound address once the listener is up.
func (s *Server) Start(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info("relay listening", logx.String("addr", s.addr), logx.Bool("auth", s.cfg.Token != ""))
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			s.log.Warn("relay shutdown incomplete", logx.Err(err))
		}
		s.log.Info("relay stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "channels": s.disp.Load().Len()})
}

func (s *Server) handleAlert(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	a, err := alert.DecodeAlert(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := s.disp.Load()
	if err := d.Send(c.Request.Context(), a); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, alert.ErrValidation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "channels": d.Len()})
}

func (s *Server) requireToken() gin.HandlerFunc {
	want := []byte("Bearer " + s.cfg.Token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			logx.String("method", c.Request.Method),
			logx.String("path", c.Request.URL.Path),
			logx.Int("status", c.Writer.Status()),
			logx.String("ip", c.ClientIP()),
			logx.Duration("dur", time.Since(start)),
		)
	}
}

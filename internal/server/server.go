package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sandeepkv93/studytime/internal/storage"
)

type Options struct {
	Now    func() time.Time
	NewID  func() string
	Logger *log.Logger
}

// Server is the reference task service behind remote mode.
type Server struct {
	repo   storage.Repository
	router *gin.Engine
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

func New(repo storage.Repository, opts Options) *Server {
	s := &Server{
		repo:   repo,
		router: gin.New(),
		now:    opts.Now,
		newID:  opts.NewID,
		logger: opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}

	s.router.Use(gin.LoggerWithWriter(s.logger.Writer()), gin.Recovery())
	s.router.GET("/healthz", s.handleHealth)

	tasks := s.router.Group("/tasks")
	{
		tasks.GET("", s.handleList)
		tasks.POST("", s.handleCreate)
		tasks.PATCH("/:id", s.handlePatch)
		tasks.DELETE("/:id", s.handleDelete)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("server=listen addr=%s", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Printf("server=shutdown addr=%s", addr)
		return srv.Shutdown(shutdownCtx)
	}
}

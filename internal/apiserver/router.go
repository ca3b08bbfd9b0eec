// Package apiserver adapts the teacher's internal/app + internal/server
// Gin engine (SPEC_FULL.md §2.5) into a thin JSON facade over
// qcore/dispatcher: submit, poll, list devices, benchmark. It carries no
// persistence and no scheduling logic of its own — every handler is a
// direct, synchronous call into the Dispatcher.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firebitsbr/houdinis/internal/logger"
	"github.com/firebitsbr/houdinis/qcore/dispatcher"
)

// Options configures a new Server (mirrors the teacher's
// RouterOptions/EngineOptions split).
type Options struct {
	Logger         *logger.Logger
	Dispatcher     *dispatcher.Dispatcher
	BasePath       string
	CORSAllowOrigin string
	DefaultShots   int
	AwaitTimeout   time.Duration
}

// Server wraps a gin.Engine bound to a Dispatcher, following the shape
// of the teacher's internal/server/router.Router: embedded engine, a
// BasePath prefix, and an explicit HTTPServer for graceful shutdown.
type Server struct {
	*gin.Engine
	log          *logger.Logger
	dispatcher   *dispatcher.Dispatcher
	basePath     string
	defaultShots int
	awaitTimeout time.Duration
	httpServer   *http.Server
}

// ErrNoServerToShutdown mirrors the teacher's router package: Shutdown
// before Start has nothing to stop.
type ErrNoServerToShutdown struct{}

func (e ErrNoServerToShutdown) Error() string { return "apiserver: no server to shutdown" }

// New builds a Server with every SPEC_FULL.md §2.5 route registered.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	if opts.Logger != nil {
		engine.Use(requestWrapper(opts.Logger))
	}
	engine.Use(cors(corsOptions{Origin: opts.CORSAllowOrigin}))
	engine.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}) })

	shots := opts.DefaultShots
	if shots <= 0 {
		shots = 1024
	}
	timeout := opts.AwaitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := &Server{
		Engine:       engine,
		log:          opts.Logger,
		dispatcher:   opts.Dispatcher,
		basePath:     opts.BasePath,
		defaultShots: shots,
		awaitTimeout: timeout,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	group := s.Group(s.basePath + "/v1")
	group.GET("/devices", s.handleListDevices)
	group.POST("/jobs", s.handleSubmitJob)
	group.GET("/jobs/:id", s.handlePollJob)
	group.POST("/benchmark", s.handleBenchmark)
}

// Start listens on port, binding to localhost only when localOnly is set
// (teacher's internal/server/router.Router.Start signature).
func (s *Server) Start(port int, localOnly bool) error {
	ip := ""
	if localOnly {
		ip = "127.0.0.1"
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", ip, port),
		Handler: s,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server without interrupting active
// connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return ErrNoServerToShutdown{}
	}
	return s.httpServer.Shutdown(ctx)
}

package ascomserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexstar-alpaca/bridge/internal/api"
	"github.com/nexstar-alpaca/bridge/internal/params"
)

// NewServer builds an Alpaca HTTP server backed by registry. config is
// validated (missing fields default) before use.
func NewServer(config *Config, registry *api.Registry, devices []DeviceInfo, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("ascomserver: invalid config: %w", err)
	}

	return &Server{
		config:   config,
		logger:   logger,
		registry: registry,
		devices:  devices,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start runs the HTTP server until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("alpaca http server listening", zap.String("address", s.config.Server.ListenAddress))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("ascomserver: listen: %w", err)
	case <-ctx.Done():
	case <-s.stopCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Stop signals Start to begin a graceful shutdown.
func (s *Server) Stop() {
	close(s.stopCh)
}

func (s *Server) setupRouter() *gin.Engine {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(ErrorHandlerMiddleware(s.logger))
	router.Use(LoggingMiddleware(s.logger))
	router.Use(TransactionMiddleware(&s.txn))

	NewManagementAPI(s).RegisterRoutes(router)

	router.GET("/api/v1/:devicetype/:devicenumber/:operation", s.handleDeviceAPI)
	router.PUT("/api/v1/:devicetype/:devicenumber/:operation", s.handleDeviceAPI)

	router.GET("/setup/v1/:devicetype/:devicenumber/:operation", s.handleSetup)
	router.PUT("/setup/v1/:devicetype/:devicenumber/:operation", s.handleSetup)

	return router
}

// handleDeviceAPI binds GET|PUT /api/v1/{type}/{number}/{op} to
// internal/api.Dispatch, per §4.E.
func (s *Server) handleDeviceAPI(c *gin.Context) {
	deviceType := c.Param("devicetype")
	operation := c.Param("operation")

	deviceNumber, err := strconv.Atoi(c.Param("devicenumber"))
	if err != nil {
		c.String(http.StatusNotFound, "device not found")
		return
	}

	args := s.buildArgs(c)
	outcome := api.Dispatch(s.registry, deviceType, deviceNumber, operation, c.Request.Method, args)

	value, _ := outcome.Value()
	var outErr error
	if outcome.IsErr() {
		outErr = outcome.Error()
	}

	env, status, isHTTP := renderEnvelope(c, value, outErr)
	if isHTTP {
		c.String(status, env.ErrorMessage)
		return
	}
	c.JSON(http.StatusOK, env)
}

// handleSetup is the /setup/v1 stub: it echoes the URL pieces rather
// than serving a real configuration UI, per spec.md §6.
func (s *Server) handleSetup(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"DeviceType":   c.Param("devicetype"),
		"DeviceNumber": c.Param("devicenumber"),
		"Operation":    c.Param("operation"),
		"Method":       c.Request.Method,
	})
}

// buildArgs constructs the case-sensitivity-aware argument map: GET
// reads the query string (case-insensitive), PUT reads the form body
// (case-sensitive), per §3's Argument map and §6's URL parameters rule.
func (s *Server) buildArgs(c *gin.Context) *params.Map {
	if c.Request.Method == http.MethodPut {
		args := params.NewSensitive()
		if err := c.Request.ParseForm(); err == nil {
			for k := range c.Request.PostForm {
				args.Set(k, c.Request.PostForm.Get(k))
			}
		}
		return args
	}

	args := params.NewInsensitive()
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			args.Set(k, v[0])
		}
	}
	return args
}

// renderEnvelope pulls ClientID/ClientTransactionID/ServerTransactionID
// out of the gin context (set by TransactionMiddleware) and renders the
// handler outcome through api.Render.
func renderEnvelope(c *gin.Context, value any, err error) (api.Envelope, int, bool) {
	return api.Render(value, err, getClientID(c), getClientTransactionID(c), getServerTransactionID(c))
}

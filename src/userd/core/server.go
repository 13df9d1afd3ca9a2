package core

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitswalk/userd/src/userd/api"
	"github.com/bitswalk/userd/src/userd/api/common"
	"github.com/bitswalk/userd/src/userd/auth"
	"github.com/bitswalk/userd/src/userd/db"
	_ "github.com/bitswalk/userd/src/userd/docs"
	"github.com/bitswalk/userd/src/userd/export"
	"github.com/bitswalk/userd/src/userd/security"
	"github.com/bitswalk/userd/src/userd/storage"
	"github.com/bitswalk/userd/src/userd/users"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server holds the HTTP server instance and configuration
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	database   *db.Database
	storage    storage.Backend
	api        *api.API
}

// NewServer creates a new Server instance. storageBackend may be nil, which
// disables the export endpoints.
func NewServer(database *db.Database, storageBackend storage.Backend) (*Server, error) {
	// Set Gin mode based on log level
	if viper.GetString("log.level") == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Client IPs key the rate limiter, so forwarded headers are only honoured on request
	if !viper.GetBool("security.rate_limit.trust_proxy") {
		if err := router.SetTrustedProxies(nil); err != nil {
			return nil, fmt.Errorf("failed to configure trusted proxies: %w", err)
		}
	}

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(ginLogger())

	users.SetLogger(log)
	repo := db.NewUserRepository(database)
	manager := users.NewManager(repo, database)

	count, err := repo.Count(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read user store: %w", err)
	}
	log.Info("User store ready", "users", count, "persist_path", database.PersistPath())

	settings, err := settingsStore(database)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Issuer:        auth.DefaultJWTConfig().Issuer,
		TokenDuration: viper.GetDuration("security.token_duration"),
	}, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	authenticator := auth.NewAuthenticator(auth.AdminConfig{
		Username:     viper.GetString("security.admin.username"),
		PasswordHash: viper.GetString("security.admin.password_hash"),
	})

	authEnabled := viper.GetBool("security.auth.enabled")
	if authEnabled && !authenticator.Configured() {
		log.Warn("Auth is enabled but no admin password hash is set - user writes will be refused",
			"hint", "run 'userd hash-password' and set security.admin.password_hash")
	}

	var exporter *export.Exporter
	if storageBackend != nil {
		export.SetLogger(log)
		exporter = export.NewExporter(manager, storageBackend)
	}

	api.SetLogger(log)
	api.SetVersionInfo(VersionInfo)
	common.SetAuditLogger(log)

	cfg := api.Config{
		Manager:       manager,
		Authenticator: authenticator,
		JWTService:    jwtService,
		AuthEnabled:   authEnabled,
		RateLimiter: api.NewRateLimiter(api.RateLimitConfig{
			Enabled:            viper.GetBool("security.rate_limit.enabled"),
			AuthRequestsPerMin: viper.GetInt("security.rate_limit.auth_per_min"),
			APIRequestsPerMin:  viper.GetInt("security.rate_limit.api_per_min"),
		}),
	}
	// a typed nil *export.Exporter must not reach the interface field
	if exporter != nil {
		cfg.Exporter = exporter
	}
	apiInstance := api.New(cfg)

	apiInstance.RegisterRoutes(router)

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		router:   router,
		database: database,
		storage:  storageBackend,
		api:      apiInstance,
	}, nil
}

// settingsStore seals settings with the master key when the database is
// persisted to disk. An in-memory only database keeps them in the clear.
func settingsStore(database *db.Database) (auth.SettingsStore, error) {
	if database.PersistPath() == "" {
		return database, nil
	}

	security.SetLogger(log)
	secrets, err := security.NewSecretManager(viper.GetString("security.master_key_path"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secret manager: %w", err)
	}
	return security.NewSealedSettings(database, secrets), nil
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until a shutdown signal or listener error
func (s *Server) Run() error {
	bind := viper.GetString("server.bind")
	port := viper.GetInt("server.port")
	addr := fmt.Sprintf("%s:%d", bind, port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener
	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting userd server", "address", addr, "auth_enabled", s.api.AuthEnabled())

		if s.storage != nil {
			log.Info("Exports enabled", "type", s.storage.Type(), "location", s.storage.Location())
		} else {
			log.Warn("Export storage not configured - export endpoints disabled")
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		s.api.Stop()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Received signal, shutting down", "signal", sig)
	}

	return s.Shutdown()
}

// Shutdown stops the HTTP server and background middleware. The database is
// persisted by the caller.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.api.Stop()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	log.Info("Server stopped gracefully")
	return nil
}

// corsMiddleware returns a gin middleware for handling CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Subject-Token, X-Request-ID")
			c.Header("Access-Control-Expose-Headers", "X-Subject-Token, X-Request-ID, Location")
		}

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ginLogger returns a gin middleware for logging requests
func ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		if query != "" {
			path = path + "?" + query
		}

		log.Debug("HTTP request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		)
	}
}

// newStorageBackend builds the export backend from the storage.* keys.
// It returns nil when exports are disabled.
func newStorageBackend(ctx context.Context) (storage.Backend, error) {
	if !viper.GetBool("exports.enabled") {
		return nil, nil
	}

	storageType := viper.GetString("storage.type")

	// If S3 endpoint is specified, use S3 regardless of storage.type
	s3Endpoint := viper.GetString("storage.s3.endpoint")
	if s3Endpoint != "" {
		storageType = storage.TypeS3
	}

	log.Info("Initializing export storage", "type", storageType)

	backend, err := storage.New(storage.Config{
		Type: storageType,
		Local: storage.LocalConfig{
			BasePath: viper.GetString("storage.local.path"),
		},
		S3: storage.S3Config{
			Endpoint:        s3Endpoint,
			Region:          viper.GetString("storage.s3.region"),
			Bucket:          viper.GetString("storage.s3.bucket"),
			AccessKeyID:     viper.GetString("storage.s3.access_key"),
			SecretAccessKey: viper.GetString("storage.s3.secret_key"),
			UsePathStyle:    viper.GetBool("storage.s3.path_style"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// For S3 backend, ensure bucket exists
	if s3Backend, ok := backend.(*storage.S3Backend); ok {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s3Backend.EnsureBucket(ctx); err != nil {
			log.Warn("S3 bucket not accessible - exports may fail", "bucket", s3Backend.Bucket(), "error", err)
		} else {
			log.Debug("S3 bucket verified", "bucket", s3Backend.Bucket())
		}
	}

	return backend, nil
}

// runServer is called by the root command to start the server
func runServer() error {
	log.Info("userd starting",
		"version", VersionInfo.Version,
		"build_date", VersionInfo.BuildDate,
		"log_output", log.Output(),
	)

	dbPath := viper.GetString("database.path")
	log.Info("Initializing database", "persist_path", dbPath)

	db.SetLogger(log)
	database, err := db.New(db.Config{
		PersistPath: dbPath,
		LoadOnStart: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	storageBackend, err := newStorageBackend(context.Background())
	if err != nil {
		database.Shutdown()
		return err
	}

	server, err := NewServer(database, storageBackend)
	if err != nil {
		database.Shutdown()
		return err
	}

	// Run server (blocks until shutdown signal)
	err = server.Run()

	log.Info("Persisting database to disk")
	if dbErr := database.Shutdown(); dbErr != nil {
		log.Error("Failed to persist database", "error", dbErr)
		if err == nil {
			err = dbErr
		}
	} else {
		log.Info("Database persisted successfully")
	}

	return err
}

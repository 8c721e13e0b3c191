package main

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/config"
	"github.com/yukikurage/devtrack/internal/constants"
	"github.com/yukikurage/devtrack/internal/database"
	"github.com/yukikurage/devtrack/internal/handlers"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := newLogger(cfg)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	store, err := newSessionStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to create session store")
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.NewServer(database.GetDB(), log).Register(r)

	// Start server
	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("Server starting")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	switch cfg.SessionStore {
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		return redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
	case "cookie":
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}

package main

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"peopledesk/internal/api"
	"peopledesk/internal/auth"
	"peopledesk/internal/config"
	"peopledesk/internal/entity"
	"peopledesk/internal/model"
	"peopledesk/internal/storage"
)

//go:embed web/dist/index.html
var indexHTML string

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if cfg.SeedDefaultAdmin {
		if err := model.SeedDefaultAdmin(context.Background(), repo); err != nil {
			logrus.WithError(err).Warn("failed to seed default admin")
		}
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/logout", httpHandler.Logout)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())

	users := protected.Group("/users")
	users.GET("",
		httpHandler.RequireAccess(auth.Requirement{Roles: []string{entity.UserRoleAdmin, entity.UserRoleHR}}),
		httpHandler.ListUsers)
	users.GET("/:id", httpHandler.GetUser)
	users.POST("",
		httpHandler.RequireAccess(auth.Requirement{Roles: []string{entity.UserRoleAdmin}}),
		httpHandler.CreateUser)
	users.PUT("/:id", httpHandler.UpdateUser)
	users.DELETE("/:id",
		httpHandler.RequireAccess(auth.Requirement{Roles: []string{entity.UserRoleAdmin}}),
		httpHandler.DeleteUser)

	documents := protected.Group("/documents")
	documents.GET("",
		httpHandler.RequireAccess(auth.Requirement{Section: auth.SectionDocuments}),
		httpHandler.ListDocuments)
	documents.POST("",
		httpHandler.RequireAccess(auth.Requirement{Section: auth.SectionDocuments}),
		httpHandler.UploadDocument)
	documents.DELETE("/:id",
		httpHandler.RequireAccess(auth.Requirement{
			Section: auth.SectionDocuments,
			Roles:   []string{entity.UserRoleAdmin},
		}),
		httpHandler.DeleteDocument)

	assistantGroup := protected.Group("/assistant")
	assistantGroup.POST("/chat",
		httpHandler.RequireAccess(auth.Requirement{Section: auth.SectionAssistant}),
		httpHandler.AssistantChat)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server failed to start")
	}
}

// CORSMiddleware handles cross-origin requests from the dashboard frontend.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware emits one structured log line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}

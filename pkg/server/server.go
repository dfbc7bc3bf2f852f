package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fstore/pkg/auth"
	"fstore/pkg/log"
	"fstore/pkg/models"
)

const shutdownTimeout = 10

// FileManager is the core the transport maps requests onto.
type FileManager interface {
	SaveFile(userID int64, filename, contentType string, reader io.Reader, declaredSize int64) (*models.FileRecord, error)
	ListFiles(userID int64, skip, limit int) ([]models.FileRecord, error)
	LocateFile(userID int64, filename string) (string, *models.FileRecord, error)
	DeleteFile(userID int64, filename string) error
	MaxFileSize() int64
}

// Server is the HTTP transport over the file store manager and the auth
// service.
type Server struct {
	echo    *echo.Echo
	files   FileManager
	auth    *auth.Service
	version string
}

// NewServer creates an HTTP server for the given collaborators.
func NewServer(files FileManager, authService *auth.Service, version string) *Server {
	return &Server{
		echo:    echo.New(),
		files:   files,
		auth:    authService,
		version: version,
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (srv *Server) Start(addr string) error {
	srv.setupRoutes()

	go func() {
		log.Info().
			Str("addr", addr).
			Str("version", srv.version).
			Msg("Starting file storage server")

		if err := srv.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return srv.Shutdown()
}

// Shutdown stops accepting requests and drains in-flight ones.
func (srv *Server) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout*time.Second)
	defer cancel()

	if err := srv.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (srv *Server) setupRoutes() {
	srv.echo.HideBanner = true
	srv.echo.HidePort = true

	srv.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	srv.echo.Use(middleware.Recover())
	srv.echo.Use(middleware.CORS())

	srv.echo.GET("/", srv.serviceInfo)
	srv.echo.GET("/health", srv.healthCheck)

	authGroup := srv.echo.Group("/api/auth")
	authGroup.POST("/register", srv.registerUser)
	authGroup.POST("/login", srv.loginUser)

	files := srv.echo.Group("/api/files", srv.auth.Middleware())
	// Cap the request body before echo spools the multipart form, so an
	// oversized payload is refused instead of drained.
	uploadLimit := strconv.FormatInt(srv.files.MaxFileSize()+uploadBodySlack, 10)
	files.POST("/upload", srv.uploadFile, middleware.BodyLimit(uploadLimit))
	files.GET("", srv.listFiles)
	files.GET("/:filename", srv.downloadFile)
	files.DELETE("/:filename", srv.deleteFile)
}

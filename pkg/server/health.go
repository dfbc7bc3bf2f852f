package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// serviceInfo handles GET / requests.
func (srv *Server) serviceInfo(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"message": "file storage service",
		"status":  "online",
		"version": srv.version,
	})
}

// healthCheck handles GET /health requests.
func (srv *Server) healthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

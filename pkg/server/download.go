package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"fstore/pkg/auth"
	"fstore/pkg/filestore"
	"fstore/pkg/log"
	"fstore/pkg/sandbox"
)

// downloadFile handles GET /api/files/:filename requests.
func (srv *Server) downloadFile(ctx echo.Context) error {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	filename, err := url.PathUnescape(ctx.Param("filename"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid filename",
		})
	}

	path, record, err := srv.files.LocateFile(userID, filename)
	if err != nil {
		switch {
		case errors.Is(err, filestore.ErrFileNotFound):
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "file not found",
			})
		case errors.Is(err, sandbox.ErrAccessDenied):
			log.Warn().Int64("user_id", userID).Str("filename", filename).Msg("Download refused")
			return ctx.JSON(http.StatusForbidden, map[string]string{
				"error": "access denied",
			})
		default:
			log.Error().Err(err).Str("filename", filename).Msg("Failed to locate file")
			return ctx.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to locate file",
			})
		}
	}

	log.Info().
		Int64("user_id", userID).
		Str("filename", record.Filename).
		Int64("size", record.Size).
		Msg("Serving file download")
	return ctx.Attachment(path, record.Filename)
}

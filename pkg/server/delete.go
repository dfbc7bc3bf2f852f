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

// deleteFile handles DELETE /api/files/:filename requests.
func (srv *Server) deleteFile(ctx echo.Context) error {
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

	if err := srv.files.DeleteFile(userID, filename); err != nil {
		switch {
		case errors.Is(err, filestore.ErrFileNotFound):
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "file not found",
			})
		case errors.Is(err, sandbox.ErrAccessDenied):
			log.Warn().Int64("user_id", userID).Str("filename", filename).Msg("Delete refused")
			return ctx.JSON(http.StatusForbidden, map[string]string{
				"error": "access denied",
			})
		default:
			log.Error().Err(err).Str("filename", filename).Msg("Delete failed")
			return ctx.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to delete file",
			})
		}
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"message":  "file deleted successfully",
		"filename": sandbox.SanitizeName(filename),
	})
}

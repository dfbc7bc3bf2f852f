package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fstore/pkg/auth"
	"fstore/pkg/filestore"
	"fstore/pkg/log"
	"fstore/pkg/models"
	"fstore/pkg/sandbox"
)

// uploadBodySlack is the multipart framing allowance on top of the file
// size limit when bounding the raw request body.
const uploadBodySlack = 1 << 20

// uploadFile handles POST /api/files/upload requests.
func (srv *Server) uploadFile(ctx echo.Context) error {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	// Refuse a declared-oversized body before FormFile drains it into the
	// multipart spool.
	if ctx.Request().ContentLength > srv.files.MaxFileSize()+uploadBodySlack {
		return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"error": "file too large",
		})
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "file parameter is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to open uploaded file",
		})
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close uploaded file")
		}
	}()

	contentType := file.Header.Get(echo.HeaderContentType)
	record, err := srv.files.SaveFile(userID, file.Filename, contentType, src, file.Size)
	if err != nil {
		return srv.uploadError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, models.UploadResponse{
		Message:  "file uploaded successfully",
		Filename: record.Filename,
		Size:     record.Size,
		URL:      "/api/files/" + record.Filename,
	})
}

// uploadError maps manager failures to status codes.
func (srv *Server) uploadError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, filestore.ErrUnsupportedType):
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "file type not allowed",
		})
	case errors.Is(err, filestore.ErrFileTooLarge):
		return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"error": "file too large",
		})
	case errors.Is(err, filestore.ErrFileExists):
		return ctx.JSON(http.StatusConflict, map[string]string{
			"error": "file already exists",
		})
	case errors.Is(err, sandbox.ErrInvalidName):
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid filename",
		})
	case errors.Is(err, sandbox.ErrAccessDenied):
		return ctx.JSON(http.StatusForbidden, map[string]string{
			"error": "access denied",
		})
	default:
		log.Error().Err(err).Msg("Failed to save file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save file",
		})
	}
}

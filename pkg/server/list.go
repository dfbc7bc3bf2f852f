package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fstore/pkg/auth"
	"fstore/pkg/log"
	"fstore/pkg/models"
)

// listFiles handles GET /api/files requests with skip/limit pagination.
func (srv *Server) listFiles(ctx echo.Context) error {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	skip, err := queryInt(ctx, "skip", 0)
	if err != nil || skip < 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "skip must be a non-negative integer",
		})
	}

	limit, err := queryInt(ctx, "limit", 100)
	if err != nil || limit < 1 || limit > 100 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "limit must be between 1 and 100",
		})
	}

	records, err := srv.files.ListFiles(userID, skip, limit)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list files")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list files",
		})
	}

	if records == nil {
		records = []models.FileRecord{}
	}

	return ctx.JSON(http.StatusOK, models.FileListResponse{
		Files: records,
		Skip:  skip,
		Limit: limit,
	})
}

// queryInt parses an optional integer query parameter.
func queryInt(ctx echo.Context, name string, fallback int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fstore/pkg/auth"
	"fstore/pkg/log"
	"fstore/pkg/models"
)

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// registerUser handles POST /api/auth/register requests.
func (srv *Server) registerUser(ctx echo.Context) error {
	var req credentialsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	user, err := srv.auth.Register(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			return ctx.JSON(http.StatusConflict, map[string]string{
				"error": "user already exists",
			})
		case errors.Is(err, auth.ErrWeakCredentials):
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": "username and password are required",
			})
		default:
			log.Error().Err(err).Msg("Registration failed")
			return ctx.JSON(http.StatusInternalServerError, map[string]string{
				"error": "registration failed",
			})
		}
	}

	return ctx.JSON(http.StatusCreated, user)
}

// loginUser handles POST /api/auth/login requests.
func (srv *Server) loginUser(ctx echo.Context) error {
	var req credentialsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	token, err := srv.auth.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return ctx.JSON(http.StatusUnauthorized, map[string]string{
				"error": "incorrect username or password",
			})
		case errors.Is(err, auth.ErrInactiveUser):
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": "inactive user",
			})
		default:
			log.Error().Err(err).Msg("Login failed")
			return ctx.JSON(http.StatusInternalServerError, map[string]string{
				"error": "login failed",
			})
		}
	}

	return ctx.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

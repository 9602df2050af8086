package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/meetspace/room-booking/internal/config"
	"github.com/meetspace/room-booking/internal/database"
	"github.com/meetspace/room-booking/internal/model"
	"github.com/meetspace/room-booking/internal/repository"
	"github.com/meetspace/room-booking/internal/utils"
)

// AuthHandler bundles dependencies for registration and login.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Pool  *database.Pool
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, pool *database.Pool) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Pool: pool}
}

type registerReq struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Register creates a user and signs a token in one step so new users are
// logged in immediately. Duplicate emails answer 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password required"})
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "user"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Name, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return dbError(c, h.Pool, err, "failed to create user")
	}
	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusCreated, authResp{User: u, Token: token})
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password answer the same 401 so the response
// does not reveal which part was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return dbError(c, h.Pool, err, "login failed")
	}
	if !utils.VerifyPassword(u.HashedPassword, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	u.HashedPassword = ""
	return c.JSON(http.StatusOK, authResp{User: u, Token: token})
}

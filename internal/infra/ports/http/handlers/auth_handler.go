package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomMeet/internal/infra/appctx"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/dto"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/middleware"
	"github.com/qrave1/RoomMeet/internal/usecase"
)

type AuthHandler struct {
	userUsecase usecase.UserUsecase

	// secureCookie выключается в debug, чтобы cookie работала по http
	secureCookie bool
}

func NewAuthHandler(userUsecase usecase.UserUsecase, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		userUsecase:  userUsecase,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username and password are required"})
	}

	user, err := h.userUsecase.CreateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return errorResponse(c, "create user", err)
	}

	return c.JSON(http.StatusCreated, dto.GetMeResponse{ID: user.ID, Username: user.Username})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.userUsecase.ValidateCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return errorResponse(c, "validate credentials", err)
	}

	token, err := h.userUsecase.GenerateJWT(user)
	if err != nil {
		return errorResponse(c, "generate jwt", err)
	}

	sameSite := http.SameSiteLaxMode
	if h.secureCookie {
		sameSite = http.SameSiteNoneMode
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.JWTCookie,
		Value:    token,
		Expires:  time.Now().Add(usecase.JWTTTL),
		Path:     "/",
		Secure:   h.secureCookie,
		HttpOnly: true,
		SameSite: sameSite,
	})

	return c.NoContent(http.StatusOK)
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user ID in context"})
	}

	user, err := h.userUsecase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(c, "get user by id", err)
	}

	return c.JSON(http.StatusOK, dto.GetMeResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

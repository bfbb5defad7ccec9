package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomMeet/internal/domain/input"
	"github.com/qrave1/RoomMeet/internal/domain/models"
	"github.com/qrave1/RoomMeet/internal/infra/appctx"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/dto"
	"github.com/qrave1/RoomMeet/internal/usecase"
)

type RoomHandler struct {
	roomUsecase usecase.RoomUsecase

	wsURL string
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase, wsURL string) *RoomHandler {
	return &RoomHandler{
		roomUsecase: roomUsecase,
		wsURL:       wsURL,
	}
}

func (h *RoomHandler) CreateRoomHandler(c echo.Context) error {
	var req dto.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	sessionID, err := h.roomUsecase.CreateRoom(c.Request().Context(), &input.CreateRoomInput{
		HostID:   userID,
		Title:    req.Title,
		Password: req.Password,
	})
	if err != nil {
		return errorResponse(c, "create room", err)
	}

	return c.JSON(http.StatusCreated, dto.CreateRoomResponse{SessionID: sessionID})
}

func (h *RoomHandler) ReserveRoomHandler(c echo.Context) error {
	var req dto.ReserveRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	title, err := h.roomUsecase.ReserveRoom(c.Request().Context(), &input.ReserveRoomInput{
		HostID:          userID,
		Title:           req.Title,
		Password:        req.Password,
		ReservationTime: req.ReservationTime,
	})
	if err != nil {
		return errorResponse(c, "reserve room", err)
	}

	return c.JSON(http.StatusCreated, dto.ReserveRoomResponse{Title: title})
}

func (h *RoomHandler) JoinRoomHandler(c echo.Context) error {
	var req dto.JoinRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	room, err := h.roomUsecase.GetRoomByTitle(c.Request().Context(), req.Title)
	if err != nil {
		return errorResponse(c, "get room by title", err)
	}

	if !room.CheckPassword(req.Password) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "wrong room password"})
	}

	res, err := h.roomUsecase.JoinRoom(c.Request().Context(), &input.JoinRoomInput{
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		return errorResponse(c, "join room", err)
	}

	return c.JSON(http.StatusOK, dto.JoinRoomResponse{
		Token:     res.Token,
		SessionID: res.SessionID,
		RoomID:    res.RoomID,
		WSURL:     h.wsURL,
	})
}

func (h *RoomHandler) GetRoomHandler(c echo.Context) error {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid room id"})
	}

	room, err := h.roomUsecase.GetRoomByID(c.Request().Context(), roomID)
	if err != nil {
		return errorResponse(c, "get room by id", err)
	}

	return c.JSON(http.StatusOK, dto.NewRoomResponseFromModel(room))
}

func (h *RoomHandler) GetRoomByTitleHandler(c echo.Context) error {
	room, err := h.roomUsecase.GetRoomByTitle(c.Request().Context(), c.Param("title"))
	if err != nil {
		return errorResponse(c, "get room by title", err)
	}

	return c.JSON(http.StatusOK, dto.NewRoomResponseFromModel(room))
}

func (h *RoomHandler) GetRoomBySessionHandler(c echo.Context) error {
	room, err := h.roomUsecase.GetRoomBySession(c.Request().Context(), c.Param("session"))
	if err != nil {
		return errorResponse(c, "get room by session", err)
	}

	return c.JSON(http.StatusOK, dto.NewRoomResponseFromModel(room))
}

func (h *RoomHandler) ListJoinsHandler(c echo.Context) error {
	room, err := h.hostRoom(c)
	if err != nil || room == nil {
		return err
	}

	records, err := h.roomUsecase.ListJoins(c.Request().Context(), room.ID)
	if err != nil {
		return errorResponse(c, "list joins", err)
	}

	return c.JSON(http.StatusOK, dto.NewListJoinsResponse(records))
}

func (h *RoomHandler) DeleteRoomHandler(c echo.Context) error {
	room, err := h.hostRoom(c)
	if err != nil || room == nil {
		return err
	}

	if err = h.roomUsecase.DeleteRoom(c.Request().Context(), room.ID); err != nil {
		return errorResponse(c, "delete room", err)
	}

	return c.NoContent(http.StatusOK)
}

// hostRoom находит комнату из пути и проверяет, что текущий пользователь ее хост.
// Если вернулся nil без ошибки, ответ клиенту уже записан.
func (h *RoomHandler) hostRoom(c echo.Context) (*models.Room, error) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid room id"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return nil, c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	room, err := h.roomUsecase.GetRoomByID(c.Request().Context(), roomID)
	if err != nil {
		return nil, errorResponse(c, "get room by id", err)
	}

	if room.HostID != userID {
		return nil, c.JSON(http.StatusForbidden, map[string]string{"error": "only room host can manage the room"})
	}

	return room, nil
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/RoomMeet/internal/application/config"
	"github.com/qrave1/RoomMeet/internal/infra/adapters/memory"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/dto"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/handlers"
	"github.com/qrave1/RoomMeet/internal/usecase"
)

const testWSURL = "wss://media.example.com"

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type testServer struct {
	e        *echo.Echo
	provider *memory.SessionProvider
}

func newTestServer() *testServer {
	cfg := &config.Config{JWTSecret: "test-secret"}

	db := memory.NewDB()
	userRepo := memory.NewUserRepository(db)
	provider := memory.NewSessionProvider()

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), userRepo)
	roomUsecase := usecase.NewRoomUsecase(
		memory.NewRoomRepository(db),
		memory.NewJoinRecordRepository(db),
		userRepo,
		provider,
		memory.NewRoomLocker(),
		usecase.WithClock(func() time.Time { return testNow }),
	)

	return &testServer{
		e:        New(cfg, handlers.NewAuthHandler(userUsecase, false), handlers.NewRoomHandler(roomUsecase, testWSURL)),
		provider: provider,
	}
}

type client struct {
	t      *testing.T
	srv    *testServer
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.srv.e.ServeHTTP(rec, req)

	return rec
}

func (s *testServer) login(t *testing.T, username string) *client {
	t.Helper()

	c := &client{t: t, srv: s}
	creds := dto.RegisterRequest{Username: username, Password: "pass-" + username}

	rec := c.do(http.MethodPost, "/api/auth/register", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest(creds))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "jwt" {
			c.cookie = cookie
		}
	}
	require.NotNil(t, c.cookie)

	return c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestAuth(t *testing.T) {
	srv := newTestServer()
	anon := &client{t: t, srv: srv}

	rec := anon.do(http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	alice := srv.login(t, "alice")

	rec = alice.do(http.MethodGet, "/api/v1/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[dto.GetMeResponse](t, rec).Username)

	rec = anon.do(http.MethodPost, "/api/auth/register", dto.RegisterRequest{Username: "alice", Password: "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = anon.do(http.MethodPost, "/api/auth/register", dto.RegisterRequest{Username: "carol"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = anon.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoomLifecycle(t *testing.T) {
	srv := newTestServer()
	alice := srv.login(t, "alice")
	bob := srv.login(t, "bob")

	rec := alice.do(http.MethodPost, "/api/v1/rooms", dto.CreateRoomRequest{Title: "standup", Password: "secret"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sessionID := decode[dto.CreateRoomResponse](t, rec).SessionID
	require.NotEmpty(t, sessionID)

	rec = bob.do(http.MethodPost, "/api/v1/rooms", dto.CreateRoomRequest{Title: "standup"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = bob.do(http.MethodPost, "/api/v1/rooms/join", dto.JoinRoomRequest{Title: "standup", Password: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = bob.do(http.MethodPost, "/api/v1/rooms/join", dto.JoinRoomRequest{Title: "standup", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	joined := decode[dto.JoinRoomResponse](t, rec)
	assert.Equal(t, sessionID, joined.SessionID)
	assert.Equal(t, testWSURL, joined.WSURL)
	assert.NotEmpty(t, joined.Token)

	roomPath := "/api/v1/rooms/" + joined.RoomID.String()

	rec = bob.do(http.MethodGet, roomPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	room := decode[dto.RoomResponse](t, rec)
	assert.Equal(t, "standup", room.Title)
	assert.Equal(t, 1, room.PeopleCount)

	rec = bob.do(http.MethodGet, "/api/v1/rooms/title/standup", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = bob.do(http.MethodGet, "/api/v1/rooms/session/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, joined.RoomID, decode[dto.RoomResponse](t, rec).ID)

	rec = bob.do(http.MethodGet, roomPath+"/joins", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = alice.do(http.MethodGet, roomPath+"/joins", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListJoinsResponse](t, rec).Joins, 1)

	rec = bob.do(http.MethodDelete, roomPath, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = alice.do(http.MethodDelete, roomPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = alice.do(http.MethodGet, roomPath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = bob.do(http.MethodPost, "/api/v1/rooms/join", dto.JoinRoomRequest{Title: "standup", Password: "secret"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReservedRoom(t *testing.T) {
	srv := newTestServer()
	alice := srv.login(t, "alice")

	rec := alice.do(http.MethodPost, "/api/v1/rooms/reserve", dto.ReserveRoomRequest{Title: "later"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = alice.do(http.MethodPost, "/api/v1/rooms/reserve", dto.ReserveRoomRequest{
		Title:           "later",
		ReservationTime: testNow.Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "later", decode[dto.ReserveRoomResponse](t, rec).Title)

	rec = alice.do(http.MethodPost, "/api/v1/rooms/join", dto.JoinRoomRequest{Title: "later"})
	assert.Equal(t, http.StatusTooEarly, rec.Code)

	rec = alice.do(http.MethodPost, "/api/v1/rooms/reserve", dto.ReserveRoomRequest{
		Title:           "now",
		ReservationTime: testNow,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = alice.do(http.MethodPost, "/api/v1/rooms/join", dto.JoinRoomRequest{Title: "now"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[dto.JoinRoomResponse](t, rec).SessionID)

	assert.Equal(t, 1, srv.provider.Created())
}

func TestRoomErrors(t *testing.T) {
	srv := newTestServer()
	alice := srv.login(t, "alice")

	rec := alice.do(http.MethodGet, "/api/v1/rooms/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = alice.do(http.MethodGet, "/api/v1/rooms/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = alice.do(http.MethodDelete, "/api/v1/rooms/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = alice.do(http.MethodPost, "/api/v1/rooms", dto.CreateRoomRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = alice.do(http.MethodPost, "/api/v1/rooms", dto.CreateRoomRequest{Title: "standup"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decode[dto.CreateRoomResponse](t, rec).SessionID

	srv.provider.Expire(sessionID)

	rec = alice.do(http.MethodPost, "/api/v1/rooms/join", dto.JoinRoomRequest{Title: "standup"})
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = alice.do(http.MethodGet, "/api/v1/rooms/title/standup", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = alice.do(http.MethodDelete, "/api/v1/rooms/"+decode[dto.RoomResponse](t, rec).ID.String(), nil)
	assert.Equal(t, http.StatusGone, rec.Code)
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/qrave1/RoomMeet/internal/application/constant"
	"github.com/qrave1/RoomMeet/internal/application/metric"
	"github.com/qrave1/RoomMeet/internal/domain/input"
	"github.com/qrave1/RoomMeet/internal/domain/models"
	"github.com/qrave1/RoomMeet/internal/domain/output"
	"github.com/qrave1/RoomMeet/internal/domain/repository"
)

const (
	activationTimeout  = 30 * time.Second
	orphanCloseTimeout = 10 * time.Second
)

// RoomUsecase управляет жизненным циклом комнат и их удаленных сессий
type RoomUsecase interface {
	// Создание комнаты с немедленной сессией, возвращает id сессии
	CreateRoom(ctx context.Context, in *input.CreateRoomInput) (string, error)
	// Бронь комнаты, сессия создается при первом входе после начала брони
	ReserveRoom(ctx context.Context, in *input.ReserveRoomInput) (string, error)

	JoinRoom(ctx context.Context, in *input.JoinRoomInput) (*output.JoinResult, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	GetRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetRoomByTitle(ctx context.Context, title string) (*models.Room, error)
	GetRoomBySession(ctx context.Context, sessionID string) (*models.Room, error)
	ListJoins(ctx context.Context, roomID uuid.UUID) ([]*models.JoinRecord, error)
}

type RoomUsecaseOption func(*roomUsecase)

func WithClock(now func() time.Time) RoomUsecaseOption {
	return func(uc *roomUsecase) {
		uc.now = now
	}
}

type roomUsecase struct {
	roomRepo repository.RoomRepository
	joinRepo repository.JoinRecordRepository
	userRepo repository.UserRepository

	provider SessionProvider
	locker   RoomLocker

	// activations схлопывает одновременные активации одной комнаты внутри процесса,
	// locker - между процессами
	activations singleflight.Group

	now func() time.Time
}

func NewRoomUsecase(
	roomRepo repository.RoomRepository,
	joinRepo repository.JoinRecordRepository,
	userRepo repository.UserRepository,
	provider SessionProvider,
	locker RoomLocker,
	opts ...RoomUsecaseOption,
) RoomUsecase {
	uc := &roomUsecase{
		roomRepo: roomRepo,
		joinRepo: joinRepo,
		userRepo: userRepo,
		provider: provider,
		locker:   locker,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *roomUsecase) CreateRoom(ctx context.Context, in *input.CreateRoomInput) (string, error) {
	if err := uc.checkHostAndTitle(ctx, in.HostID, in.Title); err != nil {
		return "", err
	}

	room, err := models.NewRoom(in)
	if err != nil {
		return "", fmt.Errorf("new room: %w", err)
	}

	sessionID, err := uc.createSession(ctx)
	if err != nil {
		return "", err
	}

	room.ConnectSession(sessionID)

	if err = uc.roomRepo.Create(ctx, room); err != nil {
		uc.closeOrphanSession(ctx, sessionID)

		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrDuplicateTitle
		}

		return "", fmt.Errorf("create room: %w", err)
	}

	metric.IncRoomsCreated(metric.RoomKindImmediate)
	metric.IncSessionActivations(metric.ActivationOnCreate)

	slog.Info(
		"room created",
		slog.Any(constant.RoomID, room.ID),
		slog.String(constant.RoomTitle, room.Title),
		slog.String(constant.SessionID, sessionID),
	)

	return sessionID, nil
}

func (uc *roomUsecase) ReserveRoom(ctx context.Context, in *input.ReserveRoomInput) (string, error) {
	if in.ReservationTime.IsZero() {
		return "", ErrInvalidReservation
	}

	if err := uc.checkHostAndTitle(ctx, in.HostID, in.Title); err != nil {
		return "", err
	}

	room, err := models.NewReservedRoom(in)
	if err != nil {
		return "", fmt.Errorf("new reserved room: %w", err)
	}

	if err = uc.roomRepo.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrDuplicateTitle
		}

		return "", fmt.Errorf("create reserved room: %w", err)
	}

	metric.IncRoomsCreated(metric.RoomKindReserved)

	slog.Info(
		"room reserved",
		slog.Any(constant.RoomID, room.ID),
		slog.String(constant.RoomTitle, room.Title),
		slog.Time("start_time", in.ReservationTime),
	)

	return room.Title, nil
}

func (uc *roomUsecase) JoinRoom(ctx context.Context, in *input.JoinRoomInput) (res *output.JoinResult, err error) {
	defer func() {
		metric.IncJoins(joinResultLabel(err))
	}()

	room, err := uc.GetRoomByTitle(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	user, err := uc.getUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if !room.HasSession() {
		if !room.IsReserved {
			slog.Warn("unreserved room without session", slog.Any(constant.RoomID, room.ID))
			return nil, ErrNoActiveSession
		}

		if !room.Started(uc.now()) {
			return nil, ErrReservationNotYetStarted
		}

		room, err = uc.activate(ctx, room.ID)
		if err != nil {
			return nil, err
		}
	}

	sessionID := room.Session()

	if err = uc.ensureSessionActive(ctx, sessionID); err != nil {
		return nil, err
	}

	grant := models.JoinGrant{
		Identity: user.ID.String(),
		Name:     user.Username,
		Metadata: joinMetadata(user.ID, room.ID),
		Role:     models.RolePublisher,
	}

	token, err := uc.provider.CreateJoinToken(ctx, sessionID, grant)
	if err != nil {
		metric.IncProviderErrors("create_join_token")
		slog.Error("create join token", slog.String(constant.SessionID, sessionID), slog.Any(constant.Error, err))

		return nil, fmt.Errorf("%w: %v", ErrSessionProvisioningFailed, err)
	}

	if err = uc.joinRepo.Create(ctx, models.NewJoinRecord(user.ID, room.ID, token)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}

		return nil, fmt.Errorf("create join record: %w", err)
	}

	slog.Info(
		"user joined room",
		slog.Any(constant.UserID, user.ID),
		slog.String(constant.RoomTitle, room.Title),
		slog.String(constant.SessionID, sessionID),
	)

	return &output.JoinResult{
		RoomID:    room.ID,
		SessionID: sessionID,
		Token:     token,
	}, nil
}

func (uc *roomUsecase) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	unlock, err := uc.locker.Lock(ctx, roomLockKey(id))
	if err != nil {
		slog.Error("lock room", slog.Any(constant.RoomID, id), slog.Any(constant.Error, err))

		return fmt.Errorf("%w: %v", ErrRoomLockUnavailable, err)
	}
	defer unlock()

	room, err := uc.GetRoomByID(ctx, id)
	if err != nil {
		return err
	}

	// Бронь, в которую так никто и не вошел: закрывать у провайдера нечего
	if !room.HasSession() {
		slog.Info("deleting never activated room", slog.Any(constant.RoomID, room.ID), slog.String(constant.RoomTitle, room.Title))

		return uc.deleteRoom(ctx, room)
	}

	sessionID := room.Session()

	if err = uc.ensureSessionActive(ctx, sessionID); err != nil {
		return err
	}

	if err = uc.provider.CloseSession(ctx, sessionID); err != nil {
		metric.IncProviderErrors("close_session")
		slog.Error("close session", slog.String(constant.SessionID, sessionID), slog.Any(constant.Error, err))

		return fmt.Errorf("%w: %v", ErrSessionProvisioningFailed, err)
	}

	return uc.deleteRoom(ctx, room)
}

func (uc *roomUsecase) deleteRoom(ctx context.Context, room *models.Room) error {
	if err := uc.roomRepo.Delete(ctx, room.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoomNotFound
		}

		return fmt.Errorf("delete room: %w", err)
	}

	metric.IncRoomsDeleted()

	slog.Info("room deleted", slog.Any(constant.RoomID, room.ID), slog.String(constant.RoomTitle, room.Title))

	return nil
}

func (uc *roomUsecase) GetRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return mapRoom(uc.roomRepo.GetByID(ctx, id))
}

func (uc *roomUsecase) GetRoomByTitle(ctx context.Context, title string) (*models.Room, error) {
	return mapRoom(uc.roomRepo.GetByTitle(ctx, title))
}

func (uc *roomUsecase) GetRoomBySession(ctx context.Context, sessionID string) (*models.Room, error) {
	return mapRoom(uc.roomRepo.GetBySession(ctx, sessionID))
}

func (uc *roomUsecase) ListJoins(ctx context.Context, roomID uuid.UUID) ([]*models.JoinRecord, error) {
	if _, err := uc.GetRoomByID(ctx, roomID); err != nil {
		return nil, err
	}

	records, err := uc.joinRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list join records: %w", err)
	}

	return records, nil
}

// activate создает первую сессию брони. Не более одной сессии на комнату:
// проигравший гонку получает сессию победителя.
func (uc *roomUsecase) activate(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	v, err, _ := uc.activations.Do(roomID.String(), func() (any, error) {
		// отмена запроса, который первым зашел в singleflight, не должна ронять остальных
		actCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activationTimeout)
		defer cancel()

		return uc.activateLocked(actCtx, roomID)
	})
	if err != nil {
		return nil, err
	}

	room := *v.(*models.Room)

	return &room, nil
}

func (uc *roomUsecase) activateLocked(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	unlock, err := uc.locker.Lock(ctx, roomLockKey(roomID))
	if err != nil {
		slog.Error("lock room", slog.Any(constant.RoomID, roomID), slog.Any(constant.Error, err))

		return nil, fmt.Errorf("%w: %v", ErrRoomLockUnavailable, err)
	}
	defer unlock()

	room, err := uc.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.HasSession() {
		return room, nil
	}

	sessionID, err := uc.createSession(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := uc.roomRepo.SetSessionIfEmpty(ctx, roomID, sessionID)
	if err != nil {
		uc.closeOrphanSession(ctx, sessionID)

		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}

		return nil, fmt.Errorf("set room session: %w", err)
	}

	if !ok {
		uc.closeOrphanSession(ctx, sessionID)

		return uc.GetRoomByID(ctx, roomID)
	}

	room.ConnectSession(sessionID)

	metric.IncSessionActivations(metric.ActivationOnJoin)

	slog.Info(
		"reserved room activated",
		slog.Any(constant.RoomID, room.ID),
		slog.String(constant.RoomTitle, room.Title),
		slog.String(constant.SessionID, sessionID),
	)

	return room, nil
}

func (uc *roomUsecase) createSession(ctx context.Context) (string, error) {
	sessionID, err := uc.provider.CreateSession(ctx)
	if err != nil {
		metric.IncProviderErrors("create_session")
		slog.Error("create session", slog.Any(constant.Error, err))

		return "", fmt.Errorf("%w: %v", ErrSessionProvisioningFailed, err)
	}

	if sessionID == "" {
		metric.IncProviderErrors("create_session")

		return "", fmt.Errorf("%w: provider returned empty session id", ErrSessionProvisioningFailed)
	}

	return sessionID, nil
}

// closeOrphanSession закрывает сессию, которую не удалось привязать к комнате
func (uc *roomUsecase) closeOrphanSession(ctx context.Context, sessionID string) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), orphanCloseTimeout)
	defer cancel()

	if err := uc.provider.CloseSession(closeCtx, sessionID); err != nil {
		metric.IncProviderErrors("close_session")
		slog.Warn("close orphan session", slog.String(constant.SessionID, sessionID), slog.Any(constant.Error, err))
	}
}

func (uc *roomUsecase) ensureSessionActive(ctx context.Context, sessionID string) error {
	sessions, err := uc.provider.ListActiveSessions(ctx)
	if err != nil {
		metric.IncProviderErrors("list_sessions")
		slog.Error("list active sessions", slog.Any(constant.Error, err))

		return fmt.Errorf("%w: %v", ErrSessionProvisioningFailed, err)
	}

	found := slices.ContainsFunc(sessions, func(s models.ActiveSession) bool {
		return s.ID == sessionID
	})
	if !found {
		slog.Warn("session not found at provider", slog.String(constant.SessionID, sessionID))

		return ErrSessionNotFound
	}

	return nil
}

func (uc *roomUsecase) checkHostAndTitle(ctx context.Context, hostID uuid.UUID, title string) error {
	if _, err := uc.getUser(ctx, hostID); err != nil {
		return err
	}

	_, err := uc.roomRepo.GetByTitle(ctx, title)
	switch {
	case err == nil:
		return ErrDuplicateTitle
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("get room by title: %w", err)
	}
}

func (uc *roomUsecase) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := uc.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownUser
		}

		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func mapRoom(room *models.Room, err error) (*models.Room, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}

		return nil, fmt.Errorf("get room: %w", err)
	}

	return room, nil
}

func roomLockKey(id uuid.UUID) string {
	return "room:" + id.String()
}

func joinMetadata(userID, roomID uuid.UUID) string {
	b, _ := json.Marshal(map[string]string{
		"user_id": userID.String(),
		"room_id": roomID.String(),
	})

	return string(b)
}

var joinResults = []struct {
	err   error
	label string
}{
	{ErrRoomNotFound, "room_not_found"},
	{ErrUnknownUser, "unknown_user"},
	{ErrNoActiveSession, "no_active_session"},
	{ErrReservationNotYetStarted, "not_started"},
	{ErrSessionNotFound, "session_not_found"},
	{ErrSessionProvisioningFailed, "provisioning_failed"},
	{ErrRoomLockUnavailable, "lock_unavailable"},
}

func joinResultLabel(err error) string {
	if err == nil {
		return "ok"
	}

	for _, r := range joinResults {
		if errors.Is(err, r.err) {
			return r.label
		}
	}

	return "internal"
}

package models

// ParticipantRole - права участника внутри медиа-сессии
type ParticipantRole string

const (
	RolePublisher  ParticipantRole = "publisher"
	RoleSubscriber ParticipantRole = "subscriber"
)

// ActiveSession - живая сессия на стороне провайдера
type ActiveSession struct {
	ID           string
	Participants int
}

// JoinGrant описывает, для кого выпускается токен подключения
type JoinGrant struct {
	Identity string
	Name     string
	Metadata string
	Role     ParticipantRole
}

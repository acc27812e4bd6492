package domain

import "time"

// Estados de una invitación a juego.
type InviteState string

const (
	InviteOpen      InviteState = "open"
	InviteStarted   InviteState = "started"
	InviteExpired   InviteState = "expired"
	InviteCancelled InviteState = "cancelled"
)

// GameInvite: convocatoria publicada en un canal, con ventana de expiración.
// Los jugadores se acumulan vía reacciones hasta cruzar min/max.
type GameInvite struct {
	MessageID string
	ChannelID string
	Kind      string
	State     InviteState
	Players   []string
	CreatedAt time.Time
}

// HasPlayer reporta si el usuario ya se anotó.
func (i *GameInvite) HasPlayer(userID string) bool {
	for _, p := range i.Players {
		if p == userID {
			return true
		}
	}
	return false
}

// GameInstance: un juego corriendo con su canal dedicado.
type GameInstance struct {
	ID        string
	Kind      string
	ChannelID string
	Players   []string
	StartedAt time.Time
	IsActive  bool
}

func (g *GameInstance) HasPlayer(userID string) bool {
	for _, p := range g.Players {
		if p == userID {
			return true
		}
	}
	return false
}

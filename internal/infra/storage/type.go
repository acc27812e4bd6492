package storage

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type UserProfile struct {
	DiscordUserID string
	Points        int
	Streak        int
	LastCheckIn   *time.Time // fecha del último check-in (solo día)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type InterviewRecord struct {
	ID            int64
	DiscordUserID string
	Type          string
	Difficulty    string
	MeetsBar      bool
	Assessment    string
	Transcript    []byte // JSON del historial Q&A
	CreatedAt     time.Time
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/descalante/interview-coach-bot/internal/infra/storage"
)

// HistoryReader lo implementa internal/infra/storage.HistoryRepo
type HistoryReader interface {
	RecentByUser(ctx context.Context, discordID string, limit int) ([]storage.InterviewRecord, error)
}

// ProfileService arma la ficha del usuario: puntos, racha y últimas
// entrevistas.
type ProfileService struct {
	profiles ProfileRepo
	history  HistoryReader
}

func NewProfileService(profiles ProfileRepo, history HistoryReader) *ProfileService {
	return &ProfileService{profiles: profiles, history: history}
}

func (s *ProfileService) Describe(ctx context.Context, userID string) (string, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("perfil de %s: %w", userID, err)
	}
	recent, err := s.history.RecentByUser(ctx, userID, 5)
	if err != nil {
		return "", fmt.Errorf("historial de %s: %w", userID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 **Tu perfil**\n⭐ Puntos: %d\n🔥 Racha de check-ins: %d\n", p.Points, p.Streak)
	if len(recent) == 0 {
		b.WriteString("\nTodavía no completaste ninguna entrevista. Arrancá con `/interview start`.")
		return b.String(), nil
	}
	b.WriteString("\n📋 **Últimas entrevistas**\n")
	for _, rec := range recent {
		verdict := "❌"
		if rec.MeetsBar {
			verdict = "✅"
		}
		fmt.Fprintf(&b, "%s %s/%s — %s\n", verdict, rec.Type, rec.Difficulty, rec.CreatedAt.Format("02/01/2006"))
	}
	return b.String(), nil
}

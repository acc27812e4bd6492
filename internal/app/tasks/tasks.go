// Package tasks define las tareas recurrentes del bot: tips diarios,
// check-ins de práctica y convocatorias automáticas a juegos.
package tasks

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/descalante/interview-coach-bot/internal/app/sched"
	"github.com/descalante/interview-coach-bot/internal/domain"
	"github.com/descalante/interview-coach-bot/internal/infra/storage"
)

// Dependencias mínimas de cada tarea, declaradas acá (consumidor) igual
// que en los services.

type TipSource interface {
	DailyTip(ctx context.Context) (string, error)
}

type Messenger interface {
	SendDM(ctx context.Context, userID, content string) (string, error)
	SendChannelMessage(ctx context.Context, channelID, content string) (string, error)
}

type QuestionSource interface {
	Random(ctx context.Context, qtype domain.InterviewType, diff domain.Difficulty) (domain.Question, error)
}

type ProfileStore interface {
	Get(ctx context.Context, discordID string) (storage.UserProfile, error)
	Upsert(ctx context.Context, p storage.UserProfile) error
}

type GameInviter interface {
	CreateInvite(ctx context.Context, channelID, kind string) (string, error)
	ListKinds() []string
}

// Puntos por mantener la racha de check-ins.
const checkInPoints = 5

// DailyTip manda un consejo de entrevistas generado por el modelo a los
// canales configurados, una vez por día a las 9.
func DailyTip(src TipSource, msgr Messenger, channelIDs []string) sched.Task {
	return sched.Task{
		Name:     "daily_tip",
		Schedule: sched.Schedule{Type: sched.Daily, Hours: []int{9}, MinuteWindow: 30},
		Run: func(ctx context.Context) error {
			if len(channelIDs) == 0 {
				return nil
			}
			tip, err := src.DailyTip(ctx)
			if err != nil {
				return fmt.Errorf("generar tip: %w", err)
			}
			content := "💡 **Tip del día**\n" + tip
			var firstErr error
			for _, ch := range channelIDs {
				if _, err := msgr.SendChannelMessage(ctx, ch, content); err != nil {
					log.Printf("[tasks] tip al canal %s: %v", ch, err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			return firstErr
		},
	}
}

// CheckIn les manda por DM una pregunta suelta a los usuarios anotados y
// les acredita puntos y racha por seguir practicando.
func CheckIn(questions QuestionSource, profiles ProfileStore, msgr Messenger, userIDs []string) sched.Task {
	types := []domain.InterviewType{
		domain.InterviewTechnical,
		domain.InterviewBehavioral,
		domain.InterviewSystemDesign,
	}
	diffs := []domain.Difficulty{
		domain.DifficultyEasy,
		domain.DifficultyMedium,
		domain.DifficultyHard,
	}

	return sched.Task{
		Name:     "check_in",
		Schedule: sched.Schedule{Type: sched.Daily, Hours: []int{10}, MinuteWindow: 30},
		Run: func(ctx context.Context) error {
			var firstErr error
			for _, userID := range userIDs {
				q, err := questions.Random(ctx, types[rand.Intn(len(types))], diffs[rand.Intn(len(diffs))])
				if err != nil {
					if err == storage.ErrNotFound {
						continue // banco vacío para esa combinación, no es fatal
					}
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				msg := fmt.Sprintf(
					"☀️ **Check-in de práctica**\n%s\n\nPensala un rato y si querés practicarla en serio, `/interview start`.",
					q.Text)
				if _, err := msgr.SendDM(ctx, userID, msg); err != nil {
					log.Printf("[tasks] check-in a %s: %v", userID, err)
					continue
				}
				if err := creditCheckIn(ctx, profiles, userID); err != nil {
					log.Printf("[tasks] acreditar check-in de %s: %v", userID, err)
				}
			}
			return firstErr
		},
	}
}

// creditCheckIn suma puntos y mantiene la racha: día consecutivo la
// extiende, día salteado la reinicia, mismo día no duplica.
func creditCheckIn(ctx context.Context, profiles ProfileStore, userID string) error {
	p, err := profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	today := time.Now().Truncate(24 * time.Hour)
	if p.LastCheckIn != nil {
		last := p.LastCheckIn.Truncate(24 * time.Hour)
		if last.Equal(today) {
			return nil
		}
		if today.Sub(last) == 24*time.Hour {
			p.Streak++
		} else {
			p.Streak = 1
		}
	} else {
		p.Streak = 1
	}
	p.DiscordUserID = userID
	p.Points += checkInPoints
	p.LastCheckIn = &today
	return profiles.Upsert(ctx, p)
}

// GameInvites publica una convocatoria a un juego al azar en el canal de
// juegos, en horario de actividad del server.
func GameInvites(games GameInviter, channelID string) sched.Task {
	return sched.Task{
		Name:     "game_invites",
		Schedule: sched.Schedule{Type: sched.SpecificHours, Hours: []int{12, 17, 20}, MinuteWindow: 30, Interval: 2 * time.Hour},
		Run: func(ctx context.Context) error {
			if channelID == "" {
				return nil
			}
			kinds := games.ListKinds()
			if len(kinds) == 0 {
				return nil
			}
			kind := kinds[rand.Intn(len(kinds))]
			if _, err := games.CreateInvite(ctx, channelID, kind); err != nil {
				return fmt.Errorf("convocatoria %s: %w", kind, err)
			}
			return nil
		},
	}
}

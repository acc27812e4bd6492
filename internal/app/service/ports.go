package service

import (
	"context"
	"errors"

	"github.com/descalante/interview-coach-bot/internal/domain"
	"github.com/descalante/interview-coach-bot/internal/infra/storage"
)

// Errores de usuario: el router los traduce a avisos efímeros, nunca
// tumban un handler.
var (
	ErrAlreadyActive   = errors.New("ya hay una entrevista activa")
	ErrNoActiveSession = errors.New("no hay entrevista activa")
	ErrNoQuestions     = errors.New("no hay preguntas para esa combinación")
	ErrNotParticipant  = errors.New("no sos participante de este juego")
	ErrNoActiveGame    = errors.New("no hay juego activo")
)

// Lo implementa internal/adapters/discord.Transport
type Messenger interface {
	SendDM(ctx context.Context, userID, content string) (messageID string, err error)
	ReactDM(ctx context.Context, userID, messageID string, emojis []string) error
	SendChannelMessage(ctx context.Context, channelID, content string) (messageID string, err error)
	React(ctx context.Context, channelID, messageID string, emojis []string) error
	CreateScopedChannel(ctx context.Context, name string, userIDs []string) (channelID string, err error)
	DeleteChannel(ctx context.Context, channelID string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

// Lo implementa internal/infra/storage.QuestionRepo
type QuestionRepo interface {
	Random(ctx context.Context, qtype domain.InterviewType, diff domain.Difficulty) (domain.Question, error)
	Insert(ctx context.Context, q domain.Question) error
}

// Lo implementa internal/infra/storage.HistoryRepo
type HistoryRepo interface {
	Insert(ctx context.Context, rec storage.InterviewRecord) error
}

// Lo implementa internal/infra/storage.ProfileRepo
type ProfileRepo interface {
	Get(ctx context.Context, discordID string) (storage.UserProfile, error)
	Upsert(ctx context.Context, p storage.UserProfile) error
	AddPoints(ctx context.Context, discordID string, points int) error
}

// Lo implementa internal/adapters/llm.Provider
type Evaluator interface {
	EvaluateAnswer(ctx context.Context, question, answer string) (needsFollowUp bool, followUp string, err error)
	Summarize(ctx context.Context, itype domain.InterviewType, diff domain.Difficulty, history []domain.QAEntry) (domain.Summary, error)
}

package domain

import "time"

// Tipos de entrevista que soporta el bot.
type InterviewType string

const (
	InterviewTechnical    InterviewType = "technical"
	InterviewBehavioral   InterviewType = "behavioral"
	InterviewSystemDesign InterviewType = "system_design"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Estados de una sesión de entrevista. El flujo siempre avanza:
// selecting_type → selecting_difficulty → waiting_for_answer ⇄ processing → completed
type SessionStatus string

const (
	StatusSelectingType       SessionStatus = "selecting_type"
	StatusSelectingDifficulty SessionStatus = "selecting_difficulty"
	StatusWaitingForAnswer    SessionStatus = "waiting_for_answer"
	StatusProcessing          SessionStatus = "processing"
	StatusCompleted           SessionStatus = "completed"
)

// MaxFollowUps limita el loop de repreguntas del LLM por sesión.
const MaxFollowUps = 5

type FollowUp struct {
	Question string
	Answer   string
}

// QAEntry es una pregunta principal con su respuesta y sus repreguntas.
type QAEntry struct {
	Question  string
	Answer    string
	FollowUps []FollowUp
}

// Session: una entrevista activa por usuario. La mutación siempre pasa por
// el SessionStore (no tocar campos desde afuera sin el lock del store).
type Session struct {
	UserID          string
	Type            InterviewType
	Difficulty      Difficulty
	Status          SessionStatus
	CurrentQuestion *Question
	History         []QAEntry
	FollowUpCount   int
	IsProcessing    bool
	StartedAt       time.Time
}

// AppendAnswer registra una respuesta contra la pregunta vigente. La primera
// respuesta abre una entrada nueva; las siguientes (repreguntas) se anexan a
// la última entrada.
func (s *Session) AppendAnswer(answer string) {
	if s.CurrentQuestion == nil {
		return
	}
	if s.FollowUpCount == 0 || len(s.History) == 0 {
		s.History = append(s.History, QAEntry{
			Question: s.CurrentQuestion.Text,
			Answer:   answer,
		})
		return
	}
	last := &s.History[len(s.History)-1]
	last.FollowUps = append(last.FollowUps, FollowUp{
		Question: s.CurrentQuestion.Text,
		Answer:   answer,
	})
}

// SelectionKind distingue qué menú está esperando el usuario.
type SelectionKind string

const (
	SelectionType       SelectionKind = "type"
	SelectionDifficulty SelectionKind = "difficulty"
)

// PendingSelection: un menú de reacciones pendiente de respuesta. Se destruye
// al consumir la reacción válida; reacciones repetidas quedan en no-op.
type PendingSelection struct {
	UserID    string
	MessageID string
	Kind      SelectionKind
	CreatedAt time.Time
}

// Question viene del banco de preguntas en Postgres.
type Question struct {
	ID         int64
	Type       InterviewType
	Difficulty Difficulty
	Text       string
	Topics     []string
}

// Summary es el resultado parseado del resumen que genera el LLM.
type Summary struct {
	OverallAssessment string
	Strengths         []string
	ImprovementAreas  []string
	Examples          []string
	MeetsBar          bool
}

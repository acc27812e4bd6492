package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"

	"github.com/descalante/interview-coach-bot/internal/domain"
)

type QuestionRepo struct{ db *sql.DB }

func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{db: db} }

// Random devuelve una pregunta al azar del banco para (tipo, dificultad).
// ErrNotFound cuando no hay ninguna que matchee: el caller decide si es
// recuperable (en la entrevista lo es: se vuelve a elegir dificultad).
func (r *QuestionRepo) Random(ctx context.Context, qtype domain.InterviewType, diff domain.Difficulty) (domain.Question, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, qtype, difficulty, question, topics
  FROM questions
 WHERE qtype = $1 AND difficulty = $2
 ORDER BY random()
 LIMIT 1
`, string(qtype), string(diff))

	var q domain.Question
	err := row.Scan(&q.ID, &q.Type, &q.Difficulty, &q.Text, pq.Array(&q.Topics))
	if err == sql.ErrNoRows {
		return domain.Question{}, ErrNotFound
	}
	return q, err
}

func (r *QuestionRepo) Insert(ctx context.Context, q domain.Question) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO questions (qtype, difficulty, question, topics)
VALUES ($1, $2, $3, $4)
`, string(q.Type), string(q.Difficulty), q.Text, pq.Array(q.Topics))
	return err
}

func (r *QuestionRepo) CountByType(ctx context.Context, qtype domain.InterviewType) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT count(*) FROM questions WHERE qtype = $1
`, string(qtype)).Scan(&n)
	return n, err
}

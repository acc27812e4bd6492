package storage

import (
	"context"
	"database/sql"
)

type HistoryRepo struct{ db *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

func (r *HistoryRepo) Insert(ctx context.Context, rec InterviewRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO interview_history (discord_user_id, qtype, difficulty, meets_bar, assessment, transcript)
VALUES ($1, $2, $3, $4, $5, $6)
`, rec.DiscordUserID, rec.Type, rec.Difficulty, rec.MeetsBar, rec.Assessment, rec.Transcript)
	return err
}

func (r *HistoryRepo) RecentByUser(ctx context.Context, discordID string, limit int) ([]InterviewRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, discord_user_id, qtype, difficulty, meets_bar, assessment, created_at
  FROM interview_history
 WHERE discord_user_id = $1
 ORDER BY created_at DESC
 LIMIT $2
`, discordID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InterviewRecord
	for rows.Next() {
		var rec InterviewRecord
		if err := rows.Scan(&rec.ID, &rec.DiscordUserID, &rec.Type, &rec.Difficulty, &rec.MeetsBar, &rec.Assessment, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

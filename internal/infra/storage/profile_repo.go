package storage

import (
	"context"
	"database/sql"
)

type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// Get devuelve el perfil, o uno en cero si el usuario todavía no tiene fila.
func (r *ProfileRepo) Get(ctx context.Context, discordID string) (UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT discord_user_id, points, streak, last_check_in, created_at, updated_at
  FROM user_profiles
 WHERE discord_user_id = $1
`, discordID)

	var p UserProfile
	err := row.Scan(&p.DiscordUserID, &p.Points, &p.Streak, &p.LastCheckIn, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return UserProfile{DiscordUserID: discordID}, nil
	}
	return p, err
}

// Upsert escribe el perfil completo. Read-modify-write sin transacción:
// dos escritores concurrentes pueden pisarse, asumimos un solo proceso.
func (r *ProfileRepo) Upsert(ctx context.Context, p UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_profiles (discord_user_id, points, streak, last_check_in)
VALUES ($1, $2, $3, $4)
ON CONFLICT (discord_user_id) DO UPDATE SET
  points        = EXCLUDED.points,
  streak        = EXCLUDED.streak,
  last_check_in = EXCLUDED.last_check_in,
  updated_at    = now()
`, p.DiscordUserID, p.Points, p.Streak, p.LastCheckIn)
	return err
}

// AddPoints suma puntos sin pisar el resto del perfil.
func (r *ProfileRepo) AddPoints(ctx context.Context, discordID string, points int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_profiles (discord_user_id, points)
VALUES ($1, $2)
ON CONFLICT (discord_user_id) DO UPDATE SET
  points     = user_profiles.points + EXCLUDED.points,
  updated_at = now()
`, discordID, points)
	return err
}

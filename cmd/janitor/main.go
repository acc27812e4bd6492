package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Limpieza periódica de la base: historiales viejos y perfiles sin
// actividad. Corre como Lambda agendada, separada del bot.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, _ = pool.Exec(cctx, `DELETE FROM interview_history WHERE created_at < now() - INTERVAL '180 days';`)
	_, _ = pool.Exec(cctx, `
DELETE FROM user_profiles
WHERE updated_at < now() - INTERVAL '90 days'
  AND points = 0;`)

	return "ok", nil
}

func main() { lambda.Start(handler) }

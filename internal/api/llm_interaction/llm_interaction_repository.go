package llmInteraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/datewise/go-date-night-suggestions/internal/types"
)

var _ Repository = (*PostgresLlmInteractionRepo)(nil)

// Repository persists prompt/response exchanges with the model.
type Repository interface {
	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error
	GetRecentInteractions(ctx context.Context, limit int) ([]types.LlmInteraction, error)
}

// PgxPool is the slice of *pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresLlmInteractionRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresLlmInteractionRepo(pgpool PgxPool, logger *slog.Logger) *PostgresLlmInteractionRepo {
	return &PostgresLlmInteractionRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresLlmInteractionRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	query := `
        INSERT INTO llm_interactions (
            prompt, response_text, model_used, latency_ms
        ) VALUES ($1, $2, $3, $4)
    `
	_, err := r.pgpool.Exec(ctx, query,
		interaction.Prompt, interaction.ResponseText,
		interaction.ModelUsed, interaction.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save llm interaction: %w", err)
	}
	return nil
}

func (r *PostgresLlmInteractionRepo) GetRecentInteractions(ctx context.Context, limit int) ([]types.LlmInteraction, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
        SELECT id, prompt, response_text, model_used, latency_ms, created_at
        FROM llm_interactions
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query llm interactions: %w", err)
	}
	defer rows.Close()

	var interactions []types.LlmInteraction
	for rows.Next() {
		var i types.LlmInteraction
		if err := rows.Scan(&i.ID, &i.Prompt, &i.ResponseText, &i.ModelUsed, &i.LatencyMs, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan llm interaction: %w", err)
		}
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading llm interactions: %w", err)
	}
	return interactions, nil
}

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"letterbox/internal/letter"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertLetter(ctx context.Context, content, mood string, deliveryAt time.Time) error {
	query := `
		INSERT INTO letters (content, mood, delivery_at)
		VALUES ($1, $2, $3)
	`

	if _, err := s.db.Exec(ctx, query, content, mood, deliveryAt); err != nil {
		return fmt.Errorf("failed to insert letter: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeliveredLetters(ctx context.Context, now time.Time) ([]letter.Letter, error) {
	query := `
		SELECT
			id::text,
			content,
			mood,
			delivery_at,
			created_at,
			COALESCE(reactions, '{"fire": 0}'::jsonb)
		FROM letters
		WHERE delivery_at <= $1
		ORDER BY delivery_at DESC
	`

	rows, err := s.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query letters: %w", err)
	}
	defer rows.Close()

	letters := []letter.Letter{}
	for rows.Next() {
		var l letter.Letter
		if err := rows.Scan(
			&l.ID,
			&l.Content,
			&l.Mood,
			&l.DeliveryAt,
			&l.CreatedAt,
			&l.Reactions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		letters = append(letters, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read letters: %w", err)
	}

	return letters, nil
}

// IncrementFire bumps the counter in a single statement so concurrent
// reactions serialize on the row lock instead of overwriting each other.
func (s *PostgresStore) IncrementFire(ctx context.Context, id string) (int, error) {
	letterID, err := uuid.Parse(id)
	if err != nil {
		return 0, letter.ErrNotFound
	}

	query := `
		UPDATE letters
		SET reactions = jsonb_set(
			COALESCE(reactions, '{}'::jsonb),
			'{fire}',
			to_jsonb(COALESCE((reactions->>'fire')::int, 0) + 1)
		)
		WHERE id = $1::uuid
		RETURNING (reactions->>'fire')::int
	`

	var fireCount int
	err = s.db.QueryRow(ctx, query, letterID.String()).Scan(&fireCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, letter.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment fire reaction: %w", err)
	}

	return fireCount, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

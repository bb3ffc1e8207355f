package database

import (
	"context"
	"time"

	"letterbox/internal/letter"
)

// LetterStore is the persistence boundary for letters. PostgresStore is the
// production implementation; MemoryStore backs tests and local runs.
type LetterStore interface {
	// InsertLetter stores a new letter. The id, created_at and reactions
	// columns take their defaults.
	InsertLetter(ctx context.Context, content, mood string, deliveryAt time.Time) error
	// DeliveredLetters returns letters with delivery_at <= now, newest
	// delivery first.
	DeliveredLetters(ctx context.Context, now time.Time) ([]letter.Letter, error)
	// IncrementFire adds one fire reaction and returns the new count. It
	// returns letter.ErrNotFound when no letter has the id.
	IncrementFire(ctx context.Context, id string) (int, error)
	Ping(ctx context.Context) error
}

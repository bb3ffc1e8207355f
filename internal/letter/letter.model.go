package letter

import (
	"errors"
	"time"
)

const ReactionFire = "fire"

var (
	ErrMissingID       = errors.New("letter id is required")
	ErrInvalidReaction = errors.New("unsupported reaction type")
	ErrNotFound        = errors.New("letter not found")
)

type Letter struct {
	ID         string    `json:"id" db:"id"`
	Content    string    `json:"content" db:"content"`
	Mood       string    `json:"mood" db:"mood"`
	DeliveryAt time.Time `json:"delivery_at" db:"delivery_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Reactions  Reactions `json:"reactions" db:"reactions"`
}

// Reactions is stored as a jsonb map. Only "fire" is counted.
type Reactions struct {
	Fire int `json:"fire"`
}

// Delivered reports whether the letter is visible to readers at now.
func (l Letter) Delivered(now time.Time) bool {
	return !l.DeliveryAt.After(now)
}

package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"letterbox/internal/letter"
)

// MemoryStore keeps letters in process. The mutex makes IncrementFire as
// atomic as the Postgres UPDATE.
type MemoryStore struct {
	mu      sync.Mutex
	letters []letter.Letter
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) InsertLetter(ctx context.Context, content, mood string, deliveryAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.letters = append(s.letters, letter.Letter{
		ID:         uuid.NewString(),
		Content:    content,
		Mood:       mood,
		DeliveryAt: deliveryAt,
		CreatedAt:  s.now(),
	})
	return nil
}

func (s *MemoryStore) DeliveredLetters(ctx context.Context, now time.Time) ([]letter.Letter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	letters := []letter.Letter{}
	for _, l := range s.letters {
		if l.Delivered(now) {
			letters = append(letters, l)
		}
	}

	sort.SliceStable(letters, func(i, j int) bool {
		return letters[i].DeliveryAt.After(letters[j].DeliveryAt)
	})
	return letters, nil
}

func (s *MemoryStore) IncrementFire(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.letters {
		if s.letters[i].ID == id {
			s.letters[i].Reactions.Fire++
			return s.letters[i].Reactions.Fire, nil
		}
	}
	return 0, letter.ErrNotFound
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

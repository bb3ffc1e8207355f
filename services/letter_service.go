package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"letterbox/internal/database"
	"letterbox/internal/letter"
	"letterbox/internal/metrics"
)

// LetterCache is the optional read-through cache for the delivered list.
// Invalidate advances the generation; a list is only ever stored under the
// generation read before the database was queried.
type LetterCache interface {
	Generation(ctx context.Context) (int64, bool)
	DeliveredLetters(ctx context.Context, gen int64) ([]letter.Letter, bool)
	SetDeliveredLetters(ctx context.Context, gen int64, letters []letter.Letter)
	Invalidate(ctx context.Context)
}

type LetterService struct {
	store         database.LetterStore
	cache         LetterCache
	deliveryDelay time.Duration
	now           func() time.Time
}

type LetterServiceOption func(*LetterService)

func WithCache(cache LetterCache) LetterServiceOption {
	return func(s *LetterService) {
		s.cache = cache
	}
}

// WithDeliveryDelay postpones visibility of new letters. Zero means letters
// are delivered the moment they are written.
func WithDeliveryDelay(d time.Duration) LetterServiceOption {
	return func(s *LetterService) {
		s.deliveryDelay = d
	}
}

func WithClock(now func() time.Time) LetterServiceOption {
	return func(s *LetterService) {
		s.now = now
	}
}

func NewLetterService(store database.LetterStore, opts ...LetterServiceOption) *LetterService {
	s := &LetterService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendLetter stores a letter. Content and mood are taken as given.
func (s *LetterService) SendLetter(ctx context.Context, req letter.CreateLetterRequest) error {
	deliveryAt := s.now().UTC().Add(s.deliveryDelay)

	if err := s.store.InsertLetter(ctx, req.Content, req.Mood, deliveryAt); err != nil {
		return fmt.Errorf("failed to send letter: %w", err)
	}

	metrics.LettersSent.Inc()
	s.invalidate(ctx)
	return nil
}

func (s *LetterService) GetArrivedLetters(ctx context.Context) ([]letter.Letter, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		gen, cacheable = s.cache.Generation(ctx)
		if cacheable {
			if cached, ok := s.cache.DeliveredLetters(ctx, gen); ok {
				metrics.LetterCacheLookups.WithLabelValues("hit").Inc()
				return cached, nil
			}
		}
		metrics.LetterCacheLookups.WithLabelValues("miss").Inc()
	}

	letters, err := s.store.DeliveredLetters(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch letters: %w", err)
	}

	if cacheable {
		s.cache.SetDeliveredLetters(ctx, gen, letters)
	}
	return letters, nil
}

// ReactToLetter adds one fire reaction and returns the new count.
func (s *LetterService) ReactToLetter(ctx context.Context, req letter.ReactRequest) (int, error) {
	if strings.TrimSpace(req.ID) == "" {
		metrics.LetterReactions.WithLabelValues("rejected").Inc()
		return 0, letter.ErrMissingID
	}
	if req.Type != letter.ReactionFire {
		metrics.LetterReactions.WithLabelValues("rejected").Inc()
		return 0, letter.ErrInvalidReaction
	}

	fireCount, err := s.store.IncrementFire(ctx, req.ID)
	if err != nil {
		if errors.Is(err, letter.ErrNotFound) {
			metrics.LetterReactions.WithLabelValues("not_found").Inc()
			return 0, err
		}
		metrics.LetterReactions.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("failed to react to letter %s: %w", req.ID, err)
	}

	metrics.LetterReactions.WithLabelValues("counted").Inc()
	s.invalidate(ctx)
	return fireCount, nil
}

func (s *LetterService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

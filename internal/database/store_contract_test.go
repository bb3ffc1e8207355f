package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterbox/internal/letter"
)

// runLetterStoreContract exercises behavior every LetterStore must share.
// newStore must return an empty store.
func runLetterStoreContract(t *testing.T, newStore func(t *testing.T) LetterStore) {
	t.Run("delivered letters are newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)

		require.NoError(t, s.InsertLetter(ctx, "first", "Hopeful", now.Add(-2*time.Hour)))
		require.NoError(t, s.InsertLetter(ctx, "second", "Lost", now.Add(-time.Hour)))
		require.NoError(t, s.InsertLetter(ctx, "third", "Longing", now.Add(-time.Minute)))

		letters, err := s.DeliveredLetters(ctx, now)
		require.NoError(t, err)
		require.Len(t, letters, 3)

		assert.Equal(t, "third", letters[0].Content)
		assert.Equal(t, "second", letters[1].Content)
		assert.Equal(t, "first", letters[2].Content)
		assert.Equal(t, "Longing", letters[0].Mood)
		assert.Equal(t, 0, letters[0].Reactions.Fire)
		assert.NotEmpty(t, letters[0].ID)
		assert.False(t, letters[0].CreatedAt.IsZero())
	})

	t.Run("future letters stay hidden until delivery", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)

		require.NoError(t, s.InsertLetter(ctx, "later", "Reflective", now.Add(time.Hour)))

		letters, err := s.DeliveredLetters(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, letters)
		assert.NotNil(t, letters)

		letters, err = s.DeliveredLetters(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, letters, 1)
		assert.Equal(t, "later", letters[0].Content)
	})

	t.Run("sequential reactions count exactly", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC()

		require.NoError(t, s.InsertLetter(ctx, "react to me", "Grateful", now.Add(-time.Second)))
		letters, err := s.DeliveredLetters(ctx, now)
		require.NoError(t, err)
		require.Len(t, letters, 1)
		id := letters[0].ID

		for i := 1; i <= 5; i++ {
			count, err := s.IncrementFire(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, i, count)
		}

		letters, err = s.DeliveredLetters(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 5, letters[0].Reactions.Fire)
	})

	t.Run("concurrent reactions are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC()

		require.NoError(t, s.InsertLetter(ctx, "popular", "Hopeful", now.Add(-time.Second)))
		letters, err := s.DeliveredLetters(ctx, now)
		require.NoError(t, err)
		id := letters[0].ID

		const reactions = 20
		var wg sync.WaitGroup
		errs := make(chan error, reactions)
		for i := 0; i < reactions; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.IncrementFire(ctx, id); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		letters, err = s.DeliveredLetters(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, reactions, letters[0].Reactions.Fire)
	})

	t.Run("unknown ids are not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.IncrementFire(ctx, uuid.NewString())
		assert.ErrorIs(t, err, letter.ErrNotFound)

		_, err = s.IncrementFire(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, letter.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}

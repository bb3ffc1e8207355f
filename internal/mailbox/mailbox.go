// Package mailbox holds the reader-side view of letters: compose checks,
// inbox rows and the local record of opened and reacted letters.
package mailbox

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"letterbox/internal/letter"
)

const (
	StatusArrived = "arrived"
	StatusOpened  = "opened"

	previewLength = 50
)

var Moods = []string{"Melancholic", "Hopeful", "Lost", "Grateful", "Reflective", "Longing"}

var (
	ErrEmptyContent = errors.New("letter content is empty")
	ErrUnknownMood  = errors.New("unknown mood")
)

// ValidateDraft checks a letter before it is sent. The server accepts any
// mood, so this is the only place the mood set is enforced.
func ValidateDraft(content, mood string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if !slices.Contains(Moods, mood) {
		return fmt.Errorf("%w %q (choose one of %s)", ErrUnknownMood, mood, strings.Join(Moods, ", "))
	}
	return nil
}

func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

func ArrivalTime(deliveryAt, now time.Time) string {
	hours := int(now.Sub(deliveryAt) / time.Hour)
	switch {
	case hours < 1:
		return "Just arrived"
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		days := hours / 24
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// Entry is one inbox row.
type Entry struct {
	ID          string
	Mood        string
	Preview     string
	Content     string
	Status      string
	ArrivalTime string
	FireCount   int
}

func NewEntry(l letter.Letter, state *State, now time.Time) Entry {
	status := StatusArrived
	if state != nil && state.HasOpened(l.ID) {
		status = StatusOpened
	}
	return Entry{
		ID:          l.ID,
		Mood:        l.Mood,
		Preview:     Preview(l.Content),
		Content:     l.Content,
		Status:      status,
		ArrivalTime: ArrivalTime(l.DeliveryAt, now),
		FireCount:   l.Reactions.Fire,
	}
}

// Find returns the letter with the given id, accepting a unique prefix.
func Find(letters []letter.Letter, id string) (letter.Letter, error) {
	var found []letter.Letter
	for _, l := range letters {
		if l.ID == id {
			return l, nil
		}
		if id != "" && strings.HasPrefix(l.ID, id) {
			found = append(found, l)
		}
	}
	switch len(found) {
	case 0:
		return letter.Letter{}, letter.ErrNotFound
	case 1:
		return found[0], nil
	default:
		return letter.Letter{}, fmt.Errorf("id prefix %q matches %d letters", id, len(found))
	}
}

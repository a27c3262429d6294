package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrEmptyName rejects a score submitted without a name.
var ErrEmptyName = errors.New("score name is required")

// Score is one leaderboard entry.
type Score struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"-"`
}

// Scores stores leaderboard entries.
type Scores interface {
	Save(ctx context.Context, s Score) error
	Top(ctx context.Context, limit int) ([]Score, error)
	Close() error
}

func normalize(s *Score) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}

// byRank orders higher scores first, earlier submissions first on ties.
func byRank(a, b Score) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// MemoryScores keeps scores in a sorted slice.
type MemoryScores struct {
	mu     sync.RWMutex
	scores []Score
}

// NewMemoryScores creates an empty score store.
func NewMemoryScores() *MemoryScores {
	return &MemoryScores{}
}

func (m *MemoryScores) Save(_ context.Context, s Score) error {
	if err := normalize(&s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i, _ := slices.BinarySearchFunc(m.scores, s, func(e, t Score) int {
		if byRank(e, t) <= 0 {
			return -1
		}
		return 1
	})
	m.scores = slices.Insert(m.scores, i, s)
	return nil
}

func (m *MemoryScores) Top(_ context.Context, limit int) ([]Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.scores)
	if limit > 0 && limit < n {
		n = limit
	}
	return slices.Clone(m.scores[:n]), nil
}

func (m *MemoryScores) Close() error { return nil }

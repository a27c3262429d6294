package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCode(t *testing.T) {
	assert.Equal(t, "0", HashCode(""))
	assert.Equal(t, "96354", HashCode("abc"))
	assert.Equal(t, "1649460279", HashCode("Coffee Run"))
	// wraps like a 32-bit signed integer
	assert.Equal(t, "-505841268", HashCode("Hello, World"))
}

func TestMemoryFlags(t *testing.T) {
	f := NewMemoryFlags()
	_, ok := f.Get("muted")
	assert.False(t, ok)

	require.NoError(t, f.Set("muted", "true"))
	v, ok := f.Get("muted")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestFileFlagsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flags.json")

	f, err := OpenFileFlags(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("123muted", "true"))

	reopened, err := OpenFileFlags(path)
	require.NoError(t, err)
	v, ok := reopened.Get("123muted")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestFileFlagsRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := OpenFileFlags(path)
	assert.Error(t, err)
}

func TestMemoryScoresRanking(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryScores()
	base := time.Now()

	require.NoError(t, s.Save(ctx, Score{Name: "ann", Score: 10, CreatedAt: base}))
	require.NoError(t, s.Save(ctx, Score{Name: "bob", Score: 30, CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.Save(ctx, Score{Name: "cat", Score: 10, CreatedAt: base.Add(2 * time.Second)}))
	require.NoError(t, s.Save(ctx, Score{Name: " dan ", Score: 20, CreatedAt: base.Add(3 * time.Second)}))

	top, err := s.Top(ctx, 3)
	require.NoError(t, err)
	var names []string
	for _, sc := range top {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{"bob", "dan", "ann"}, names)

	all, err := s.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "cat", all[3].Name)
}

func TestScoresRequireName(t *testing.T) {
	s := NewMemoryScores()
	err := s.Save(context.Background(), Score{Name: "   ", Score: 5})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func setupPostgres(t *testing.T) *PostgresScores {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}
	ctx := context.Background()

	s, err := NewPostgresScores(ctx, url)
	require.NoError(t, err)

	_, err = s.pool.Exec(ctx, "DELETE FROM scores")
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestPostgresScores_SaveAndTop(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Millisecond)

	require.NoError(t, s.Save(ctx, Score{Name: "ann", Score: 5, CreatedAt: base}))
	require.NoError(t, s.Save(ctx, Score{Name: "bob", Score: 9, CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.Save(ctx, Score{Name: "cat", Score: 5, CreatedAt: base.Add(2 * time.Second)}))

	top, err := s.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob", top[0].Name)
	assert.Equal(t, "ann", top[1].Name)
}

func TestPostgresScores_RejectsEmptyName(t *testing.T) {
	s := setupPostgres(t)
	assert.ErrorIs(t, s.Save(context.Background(), Score{Score: 1}), ErrEmptyName)
}

package subscription

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type memoryStore struct {
	status  *Status
	saves   int
	saveErr error
}

func (m *memoryStore) Load(context.Context) (Status, error) {
	if m.status == nil {
		return Status{}, ErrNotFound
	}
	return *m.status, nil
}

func (m *memoryStore) Save(_ context.Context, s Status) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.status = &s
	return nil
}

func TestOpenDefaultsToTrialAndPersists(t *testing.T) {
	store := &memoryStore{}
	c, err := Open(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, Status{EssaysRemaining: TrialLimit}, c.Status())
	require.Equal(t, 1, store.saves)
	require.NotNil(t, store.status)
}

func TestOpenKeepsExistingRecord(t *testing.T) {
	store := &memoryStore{status: &Status{EssaysRemaining: 2, EssaysUsed: 3}}
	c, err := Open(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, 2, c.Status().EssaysRemaining)
	require.Zero(t, store.saves, "unchanged record must not be rewritten")
}

func TestTotalStaysConstantAcrossGrades(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, &memoryStore{}, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	for i := 0; i < TrialLimit; i++ {
		require.True(t, c.CanGrade())
		require.NoError(t, c.ConsumeOne(ctx))
		require.Equal(t, TrialLimit, c.Status().Total())
	}
	require.False(t, c.CanGrade())

	require.NoError(t, c.Subscribe(ctx))
	for i := 0; i < 17; i++ {
		require.NoError(t, c.ConsumeOne(ctx))
		require.Equal(t, YearlyLimit, c.Status().Total())
	}
}

func TestSubscribeIsDestructiveReset(t *testing.T) {
	priors := []Status{
		{},
		{EssaysRemaining: 3, EssaysUsed: 2},
		{IsPremium: true, EssaysRemaining: 150, EssaysUsed: 50},
		{EssaysRemaining: -1, EssaysUsed: 9},
	}
	for _, prior := range priors {
		prior := prior
		store := &memoryStore{status: &prior}
		c, err := Open(context.Background(), store, WithClock(func() time.Time { return fixedNow }))
		require.NoError(t, err)
		require.NoError(t, c.Subscribe(context.Background()))
		got := c.Status()
		require.True(t, got.IsPremium)
		require.Equal(t, YearlyLimit, got.EssaysRemaining)
		require.Zero(t, got.EssaysUsed)
		require.NotNil(t, got.ExpiresAt)
		require.True(t, got.ExpiresAt.Equal(fixedNow.Add(Term)))
		require.Equal(t, got, *store.status)
	}
}

func TestCanGradeOnlyWhenRemainingPositive(t *testing.T) {
	for remaining, want := range map[int]bool{-2: false, 0: false, 1: true, 200: true} {
		require.Equal(t, want, Status{EssaysRemaining: remaining}.CanGrade(), "remaining=%d", remaining)
	}
}

func TestExpiredPremiumRevertsOnOpen(t *testing.T) {
	expired := fixedNow.Add(-time.Hour)
	store := &memoryStore{status: &Status{IsPremium: true, EssaysRemaining: 40, EssaysUsed: 160, ExpiresAt: &expired}}
	c, err := Open(context.Background(), store, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	got := c.Status()
	require.False(t, got.IsPremium)
	require.Zero(t, got.EssaysRemaining)
	require.Equal(t, 160, got.EssaysUsed)
	require.Nil(t, got.ExpiresAt)
	require.Equal(t, 1, store.saves)
}

func TestPremiumWithoutExpiryNeverLapses(t *testing.T) {
	s := Status{IsPremium: true, EssaysRemaining: 10}
	require.False(t, s.Expire(fixedNow.AddDate(10, 0, 0)))
	require.True(t, s.IsPremium)
}

func TestRefreshExpiresDuringSession(t *testing.T) {
	now := fixedNow
	store := &memoryStore{}
	c, err := Open(context.Background(), store, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	require.NoError(t, c.Subscribe(context.Background()))

	changed, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.False(t, changed)

	now = now.Add(Term + time.Second)
	changed, err = c.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	require.False(t, c.CanGrade())
}

func TestPersistFailureIsReported(t *testing.T) {
	store := &memoryStore{status: &Status{EssaysRemaining: 1}}
	c, err := Open(context.Background(), store)
	require.NoError(t, err)
	store.saveErr = errors.New("disk full")
	err = c.ConsumeOne(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, store.saveErr)
	require.Zero(t, c.Status().EssaysRemaining)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "subscription.json")
	store := NewFileStore(path)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	expires := fixedNow.Add(Term)
	want := Status{IsPremium: true, EssaysRemaining: 199, EssaysUsed: 1, ExpiresAt: &expires}
	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.EssaysRemaining, got.EssaysRemaining)
	require.True(t, got.ExpiresAt.Equal(expires))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStoreReadsLegacyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscription.json")
	legacy := `{"isPremium":false,"essaysRemaining":4,"essaysUsed":1}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))
	got, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Status{EssaysRemaining: 4, EssaysUsed: 1}, got)
}

func TestFileStoreRejectsCorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscription.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Open(context.Background(), NewFileStore(path))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "grademaster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, Status{EssaysRemaining: 5}))
	require.NoError(t, store.Save(ctx, Status{EssaysRemaining: 4, EssaysUsed: 1}))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Status{EssaysRemaining: 4, EssaysUsed: 1}, got)
}

func TestMigrateCopiesRecord(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	from := NewFileStore(filepath.Join(dir, "subscription.json"))
	to, err := OpenSQLite(ctx, filepath.Join(dir, "grademaster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = to.Close() })

	copied, err := Migrate(ctx, from, to)
	require.NoError(t, err)
	require.False(t, copied)

	require.NoError(t, from.Save(ctx, Status{EssaysRemaining: 3, EssaysUsed: 2}))
	copied, err = Migrate(ctx, from, to)
	require.NoError(t, err)
	require.True(t, copied)
	got, err := to.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, got.EssaysRemaining)
}

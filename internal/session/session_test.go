package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/kingrea/grademaster/internal/grading"
	"github.com/kingrea/grademaster/internal/journal"
	"github.com/kingrea/grademaster/internal/subscription"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90wS\xde")

type memoryStore struct {
	mu      sync.Mutex
	status  *subscription.Status
	saves   int
	failErr error
}

func (m *memoryStore) Load(context.Context) (subscription.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == nil {
		return subscription.Status{}, subscription.ErrNotFound
	}
	return *m.status, nil
}

func (m *memoryStore) Save(_ context.Context, st subscription.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.status = &st
	return nil
}

type countingGrader struct {
	calls atomic.Int32
	err   error
}

func (g *countingGrader) Grade(context.Context, grading.Image) (*grading.Result, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return &grading.Result{
		OverallBand: 6.5,
		Criteria:    grading.Criteria{TaskResponse: 6, CoherenceCohesion: 7, LexicalResource: 6.5, GrammarAccuracy: 6.5},
		DetailedFeedback: []grading.FeedbackItem{
			{Type: grading.TypeGrammar, Severity: grading.SeverityMistake, Explanation: "Agreement."},
		},
		Summary: "Solid.",
	}, nil
}

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "essay.png")
	if err := os.WriteFile(path, pngBytes, 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

func newController(t *testing.T, store *memoryStore, grader grading.Grader, opts ...Option) *Controller {
	t.Helper()
	counter, err := subscription.Open(context.Background(), store)
	if err != nil {
		t.Fatalf("open counter: %v", err)
	}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	c, err := NewController(counter, grader, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestNavigateRules(t *testing.T) {
	c := newController(t, &memoryStore{}, &countingGrader{})

	if err := c.Navigate(ScreenFeedback); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("feedback without result should be rejected, got %v", err)
	}
	for _, s := range []Screen{ScreenDescriptors, ScreenGradeUpload, ScreenSubscription, ScreenAppInfo} {
		if err := c.Navigate(s); err != nil {
			t.Fatalf("home -> %s: %v", s, err)
		}
		if err := c.Navigate(ScreenAppInfo); s != ScreenAppInfo && !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> app info should be rejected, got %v", s, err)
		}
		if err := c.Navigate(ScreenHome); err != nil {
			t.Fatalf("%s -> home: %v", s, err)
		}
	}
	if err := c.Navigate(Screen(42)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unknown screen should be rejected, got %v", err)
	}
	if c.Screen() != ScreenHome {
		t.Fatalf("expected home, got %s", c.Screen())
	}
}

func TestTrialExhaustionRoutesToSubscription(t *testing.T) {
	store := &memoryStore{}
	grader := &countingGrader{}
	c := newController(t, store, grader)
	path := writePNG(t)
	ctx := context.Background()

	for i := 0; i < subscription.TrialLimit; i++ {
		if err := c.Navigate(ScreenGradeUpload); err != nil {
			t.Fatalf("navigate to upload: %v", err)
		}
		if _, err := c.Grade(ctx, path); err != nil {
			t.Fatalf("grade %d: %v", i+1, err)
		}
		if c.Screen() != ScreenFeedback {
			t.Fatalf("grade %d: expected feedback, got %s", i+1, c.Screen())
		}
		if err := c.Navigate(ScreenHome); err != nil {
			t.Fatalf("back home: %v", err)
		}
	}

	st := c.State().Subscription
	if st.EssaysRemaining != 0 || st.EssaysUsed != subscription.TrialLimit {
		t.Fatalf("unexpected status after trial: %+v", st)
	}

	if err := c.Navigate(ScreenGradeUpload); err != nil {
		t.Fatalf("navigate to upload: %v", err)
	}
	if _, err := c.Begin(context.Background(), path); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
	if c.Screen() != ScreenSubscription {
		t.Fatalf("expected subscription screen, got %s", c.Screen())
	}
	if got := grader.calls.Load(); got != subscription.TrialLimit {
		t.Fatalf("grader called %d times, want %d", got, subscription.TrialLimit)
	}

	if err := c.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	st = c.State().Subscription
	if !st.IsPremium || st.EssaysRemaining != subscription.YearlyLimit || st.EssaysUsed != 0 {
		t.Fatalf("unexpected status after subscribe: %+v", st)
	}
	if c.Screen() != ScreenHome {
		t.Fatalf("expected home after subscribe, got %s", c.Screen())
	}
	if store.status == nil || !store.status.IsPremium {
		t.Fatalf("subscription was not persisted: %+v", store.status)
	}
}

func TestFailureLeavesQuotaUnchanged(t *testing.T) {
	store := &memoryStore{}
	grader := &countingGrader{err: errors.New("model overloaded")}
	c := newController(t, store, grader)
	path := writePNG(t)

	if err := c.Navigate(ScreenGradeUpload); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	before := c.State().Subscription
	_, err := c.Grade(context.Background(), path)
	if err == nil {
		t.Fatalf("expected grading error")
	}
	st := c.State()
	if st.Screen != ScreenGradeUpload || st.Processing {
		t.Fatalf("unexpected state after failure: %+v", st)
	}
	if st.Error != FailureMessage {
		t.Fatalf("expected generic failure message, got %q", st.Error)
	}
	if st.Subscription != before {
		t.Fatalf("quota changed on failure: %+v -> %+v", before, st.Subscription)
	}

	grader.err = nil
	if _, err := c.Grade(context.Background(), path); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if c.State().Error != "" {
		t.Fatalf("error should clear on success")
	}
}

func TestRejectedImageSetsGenericError(t *testing.T) {
	c := newController(t, &memoryStore{}, &countingGrader{})
	txt := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(txt, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = c.Navigate(ScreenGradeUpload)

	if _, err := c.Begin(context.Background(), txt); !errors.Is(err, grading.ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if c.State().Error != FailureMessage {
		t.Fatalf("expected generic message, got %q", c.State().Error)
	}
	// The slot taken for the rejected file is given back.
	if _, err := c.Begin(context.Background(), writePNG(t)); err != nil {
		t.Fatalf("begin after rejection: %v", err)
	}
}

func TestNoFileIsIgnored(t *testing.T) {
	grader := &countingGrader{}
	c := newController(t, &memoryStore{}, grader)
	_ = c.Navigate(ScreenGradeUpload)
	before := c.State()

	if _, err := c.Begin(context.Background(), ""); !errors.Is(err, grading.ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if after := c.State(); after != before {
		t.Fatalf("state changed on empty selection: %+v -> %+v", before, after)
	}
	if grader.calls.Load() != 0 {
		t.Fatalf("grader should not be called")
	}
}

func TestBeginOutsideUploadScreen(t *testing.T) {
	c := newController(t, &memoryStore{}, &countingGrader{})
	if _, err := c.Begin(context.Background(), writePNG(t)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSecondUploadWhileProcessingIsRefused(t *testing.T) {
	grader := &countingGrader{}
	c := newController(t, &memoryStore{}, grader)
	path := writePNG(t)
	_ = c.Navigate(ScreenGradeUpload)

	job, err := c.Begin(context.Background(), path)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if !c.State().Processing {
		t.Fatalf("expected processing")
	}
	if _, err := c.Begin(context.Background(), path); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := c.Navigate(ScreenHome); !errors.Is(err, ErrBusy) {
		t.Fatalf("navigation during processing should be refused, got %v", err)
	}
	if err := c.Subscribe(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("subscribe during processing should be refused, got %v", err)
	}

	done := make(chan Outcome, 1)
	go func() {
		done <- c.Run(context.Background(), job)
	}()
	out := <-done
	if err := c.Complete(context.Background(), out); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := c.Complete(context.Background(), out); err == nil {
		t.Fatalf("completing twice should fail")
	}
	if grader.calls.Load() != 1 {
		t.Fatalf("grader called %d times", grader.calls.Load())
	}
	if c.State().Processing {
		t.Fatalf("processing should be cleared")
	}
}

func TestConcurrentBeginAcceptsOneJob(t *testing.T) {
	c := newController(t, &memoryStore{}, &countingGrader{})
	_ = c.Navigate(ScreenGradeUpload)
	path := writePNG(t)

	const callers = 8
	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		busy     atomic.Int32
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			job, err := c.Begin(context.Background(), path)
			switch {
			case err == nil && job != nil:
				accepted.Add(1)
			case errors.Is(err, ErrBusy):
				busy.Add(1)
			default:
				t.Errorf("unexpected begin error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if accepted.Load() != 1 || busy.Load() != callers-1 {
		t.Fatalf("expected 1 accepted and %d busy, got %d and %d", callers-1, accepted.Load(), busy.Load())
	}
}

func TestExpiredPlanIsRefusedAtUpload(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := &memoryStore{}
	counter, err := subscription.Open(context.Background(), store, subscription.WithClock(clock))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	grader := &countingGrader{}
	c, err := NewController(counter, grader, WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if err := c.Subscribe(context.Background()); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	now = now.Add(subscription.Term + 24*time.Hour)
	_ = c.Navigate(ScreenGradeUpload)
	if _, err := c.Begin(context.Background(), writePNG(t)); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted after expiry, got %v", err)
	}
	st := c.State()
	if st.Screen != ScreenSubscription || st.Subscription.IsPremium || st.Subscription.EssaysRemaining != 0 {
		t.Fatalf("unexpected state after expiry: %+v", st)
	}
	if store.status == nil || store.status.IsPremium {
		t.Fatalf("expiry should be persisted: %+v", store.status)
	}
	if grader.calls.Load() != 0 {
		t.Fatalf("grader should not be called")
	}
}

type blockingGrader struct{}

func (blockingGrader) Grade(ctx context.Context, _ grading.Image) (*grading.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRunAppliesTimeout(t *testing.T) {
	c := newController(t, &memoryStore{}, blockingGrader{}, WithTimeout(20*time.Millisecond))
	_ = c.Navigate(ScreenGradeUpload)
	job, err := c.Begin(context.Background(), writePNG(t))
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	out := c.Run(context.Background(), job)
	if !errors.Is(out.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", out.Err)
	}
	if err := c.Complete(context.Background(), out); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if st := c.State(); st.Error != FailureMessage || st.Subscription.EssaysRemaining != subscription.TrialLimit {
		t.Fatalf("unexpected state after timeout: %+v", st)
	}
}

func TestPersistFailureStillShowsResult(t *testing.T) {
	store := &memoryStore{}
	c := newController(t, store, &countingGrader{})
	_ = c.Navigate(ScreenGradeUpload)
	store.failErr = errors.New("disk full")

	res, err := c.Grade(context.Background(), writePNG(t))
	if err == nil {
		t.Fatalf("expected persistence error")
	}
	if res == nil || c.Screen() != ScreenFeedback {
		t.Fatalf("result should still be shown, screen=%s", c.Screen())
	}
	if got := c.State().Subscription.EssaysRemaining; got != subscription.TrialLimit-1 {
		t.Fatalf("in-memory count should advance, got %d", got)
	}
}

func TestJournalRecordsGrading(t *testing.T) {
	j, err := journal.New(filepath.Join(t.TempDir(), "journey.log"))
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	c := newController(t, &memoryStore{}, &countingGrader{}, WithJournal(j))
	_ = c.Navigate(ScreenGradeUpload)
	if _, err := c.Grade(context.Background(), writePNG(t)); err != nil {
		t.Fatalf("grade: %v", err)
	}
	entries, total := j.Tail(10)
	if total != 2 {
		t.Fatalf("expected 2 journal entries, got %d: %+v", total, entries)
	}
	if entries[1].Level != journal.LevelInfo {
		t.Fatalf("unexpected entry %+v", entries[1])
	}
}

func TestRefreshSubscriptionKeepsActivePremium(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)
	store := &memoryStore{status: &subscription.Status{IsPremium: true, EssaysRemaining: 150, EssaysUsed: 50, ExpiresAt: &expired}}
	counter, err := subscription.Open(context.Background(), store, subscription.WithClock(func() time.Time { return now.Add(-2 * time.Hour) }))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !counter.Status().IsPremium {
		t.Fatalf("record should still be premium before expiry")
	}
	c, err := NewController(counter, &countingGrader{})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	// Counter's clock is fixed before expiry, so refresh is a no-op.
	c.RefreshSubscription(context.Background())
	if !c.State().Subscription.IsPremium {
		t.Fatalf("refresh should not expire an active record")
	}
}

func TestRequestUploadChecksQuota(t *testing.T) {
	store := &memoryStore{status: &subscription.Status{EssaysRemaining: 0, EssaysUsed: subscription.TrialLimit}}
	c := newController(t, store, &countingGrader{})
	if err := c.RequestUpload(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from home, got %v", err)
	}
	_ = c.Navigate(ScreenGradeUpload)
	if err := c.RequestUpload(context.Background()); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
	if c.Screen() != ScreenSubscription {
		t.Fatalf("expected subscription screen, got %s", c.Screen())
	}
}

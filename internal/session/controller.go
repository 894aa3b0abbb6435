// Package session owns the application state: which screen is showing, the
// subscription counter, the last grading result and the grading flow.
//
//	Idle --(quota>0 & image selected)--> Processing --(success)--> Feedback
//	Idle --(quota==0)--> Subscription
//	Processing --(failure)--> Idle (with error message), quota unchanged
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kingrea/grademaster/internal/grading"
	"github.com/kingrea/grademaster/internal/journal"
	"github.com/kingrea/grademaster/internal/logging"
	"github.com/kingrea/grademaster/internal/subscription"
)

// FailureMessage is the only text a user sees when grading fails, whatever
// the cause.
const FailureMessage = "Could not process image. Please try again with a clearer photo."

var (
	// ErrInvalidTransition is returned by Navigate for disallowed moves.
	ErrInvalidTransition = errors.New("session: invalid screen transition")
	// ErrQuotaExhausted means no essays remain; the controller has already
	// switched to the subscription screen.
	ErrQuotaExhausted = errors.New("session: no essays remaining")
	// ErrBusy means a grading is already in flight.
	ErrBusy = errors.New("session: grading already in progress")
)

// State is a snapshot of the application state for rendering.
type State struct {
	Screen       Screen
	Subscription subscription.Status
	Result       *grading.Result
	Processing   bool
	Error        string
}

// Job is one accepted grading request.
type Job struct {
	ID      string
	Image   grading.Image
	Started time.Time
}

// Outcome is the completion of a Job.
type Outcome struct {
	JobID   string
	Result  *grading.Result
	Err     error
	Elapsed time.Duration
}

// Controller is the single owner of application state. Begin and Complete
// bracket a grading; Run does the slow part and may execute on any goroutine.
type Controller struct {
	counter *subscription.Counter
	grader  grading.Grader
	timeout time.Duration
	logger  *zap.Logger
	journal *journal.Journal
	clock   func() time.Time

	// inflight is the single grading slot, held from Begin until Complete.
	inflight *semaphore.Weighted

	mu      sync.Mutex
	screen  Screen
	result  *grading.Result
	current *Job
	errMsg  string
}

// Option customizes Controller construction.
type Option func(*Controller)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithJournal records grading activity in the human-readable journal.
func WithJournal(j *journal.Journal) Option {
	return func(c *Controller) {
		c.journal = j
	}
}

// WithTimeout bounds each grading call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithClock lets tests control job timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewController starts on the Home screen.
func NewController(counter *subscription.Counter, grader grading.Grader, opts ...Option) (*Controller, error) {
	if counter == nil {
		return nil, fmt.Errorf("session: subscription counter is required")
	}
	if grader == nil {
		return nil, fmt.Errorf("session: grader is required")
	}
	c := &Controller{
		counter:  counter,
		grader:   grader,
		timeout:  grading.DefaultTimeout,
		logger:   logging.OrNop(nil),
		clock:    time.Now,
		inflight: semaphore.NewWeighted(1),
		screen:   ScreenHome,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Screen:       c.screen,
		Subscription: c.counter.Status(),
		Result:       c.result,
		Processing:   c.current != nil,
		Error:        c.errMsg,
	}
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Navigate switches screens. Navigation is refused while a grading is in
// flight so that its completion lands on the upload screen it started from.
func (c *Controller) Navigate(to Screen) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return ErrBusy
	}
	if to == c.screen {
		return nil
	}
	if !canNavigate(c.screen, to, c.result != nil) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.screen, to)
	}
	c.screen = to
	return nil
}

// RequestUpload is the check made before an image is chosen. A lapsed
// premium plan is expired first. With no essays left it switches to the
// subscription screen and returns ErrQuotaExhausted.
func (c *Controller) RequestUpload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkUploadLocked(ctx)
}

func (c *Controller) checkUploadLocked(ctx context.Context) error {
	if c.screen != ScreenGradeUpload {
		return fmt.Errorf("%w: upload outside %s", ErrInvalidTransition, ScreenGradeUpload)
	}
	c.refreshLocked(ctx)
	if !c.counter.CanGrade() {
		c.screen = ScreenSubscription
		c.journal.Warn("Upload refused · no essays remaining")
		return ErrQuotaExhausted
	}
	return nil
}

// Begin accepts an upload from the Grade screen. It checks the quota first
// (switching to the subscription screen and returning ErrQuotaExhausted when
// none remains), then takes the single grading slot and loads the image.
// ErrNoFile is returned untouched for the caller to ignore. Any other load
// failure sets the generic error.
func (c *Controller) Begin(ctx context.Context, path string) (*Job, error) {
	if err := c.RequestUpload(ctx); err != nil {
		return nil, err
	}
	if !c.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	job, err := c.accept(ctx, path)
	if err != nil {
		c.inflight.Release(1)
	}
	return job, err
}

// accept reads the image without holding mu, then re-checks the upload
// conditions since the screen or quota may have changed meanwhile.
func (c *Controller) accept(ctx context.Context, path string) (*Job, error) {
	img, err := grading.LoadImage(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if errors.Is(err, grading.ErrNoFile) {
		return nil, err
	}
	if err != nil {
		c.errMsg = FailureMessage
		c.logger.Warn("image rejected", zap.String("path", path), zap.Error(err))
		c.journal.Error("Image rejected · %v", err)
		return nil, err
	}
	if err := c.checkUploadLocked(ctx); err != nil {
		return nil, err
	}
	job := &Job{ID: uuid.NewString(), Image: img, Started: c.clock()}
	c.current = job
	c.errMsg = ""
	c.logger.Info("grading started",
		zap.String("request_id", job.ID),
		zap.String("image", img.Name),
		zap.String("mime_type", img.MIMEType),
		zap.Int("bytes", len(img.Data)))
	c.journal.Info("Grading %s (%s)", img.Name, img.MIMEType)
	return job, nil
}

// Run calls the grader for job. It touches no controller state and is safe
// to call from a background goroutine.
func (c *Controller) Run(ctx context.Context, job *Job) Outcome {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	res, err := c.grader.Grade(ctx, job.Image)
	if err == nil && res == nil {
		err = errors.New("session: grader returned no result")
	}
	return Outcome{JobID: job.ID, Result: res, Err: err, Elapsed: c.clock().Sub(job.Started)}
}

// Complete applies an outcome. Success consumes one essay, stores the result
// and shows Feedback. Failure leaves the counter alone and shows the generic
// error on the upload screen. A persistence error after a successful grade
// is returned but does not hide the result.
func (c *Controller) Complete(ctx context.Context, out Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.ID != out.JobID {
		return fmt.Errorf("session: no grading in flight for %s", out.JobID)
	}
	c.current = nil
	c.inflight.Release(1)

	fields := []zap.Field{zap.String("request_id", out.JobID), zap.Duration("elapsed", out.Elapsed)}
	if out.Err != nil {
		c.errMsg = FailureMessage
		c.screen = ScreenGradeUpload
		c.logger.Error("grading failed", append(fields, zap.Error(out.Err))...)
		c.journal.Error("Grading failed after %s · %v", out.Elapsed.Round(time.Millisecond), out.Err)
		return nil
	}

	c.result = out.Result
	c.errMsg = ""
	c.screen = ScreenFeedback
	persistErr := c.counter.ConsumeOne(ctx)
	remaining := c.counter.Status().EssaysRemaining
	c.logger.Info("grading finished", append(fields,
		zap.Float64("overall_band", out.Result.OverallBand),
		zap.Int("feedback_items", len(out.Result.DetailedFeedback)),
		zap.Int("essays_remaining", remaining))...)
	c.journal.Info("Band %v · %d feedback point(s) · %d essay(s) left",
		out.Result.OverallBand, len(out.Result.DetailedFeedback), remaining)
	if persistErr != nil {
		c.logger.Error("persist subscription", zap.Error(persistErr))
		c.journal.Error("Could not save essay count: %v", persistErr)
		return persistErr
	}
	return nil
}

// Grade runs a full Begin/Run/Complete cycle synchronously. It is used by
// the command line, which has no event loop. The controller must be on the
// upload screen.
func (c *Controller) Grade(ctx context.Context, path string) (*grading.Result, error) {
	job, err := c.Begin(ctx, path)
	if err != nil {
		return nil, err
	}
	out := c.Run(ctx, job)
	if err := c.Complete(ctx, out); err != nil {
		return out.Result, err
	}
	if out.Err != nil {
		return nil, out.Err
	}
	return out.Result, nil
}

// Subscribe starts the yearly plan and returns to Home.
func (c *Controller) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return ErrBusy
	}
	if err := c.counter.Subscribe(ctx); err != nil {
		c.logger.Error("persist subscription", zap.Error(err))
		c.journal.Error("Could not save subscription: %v", err)
		return err
	}
	st := c.counter.Status()
	c.screen = ScreenHome
	c.logger.Info("subscribed", zap.Int("essays_remaining", st.EssaysRemaining), zap.Timep("expires_at", st.ExpiresAt))
	c.journal.Info("Premium active · %d essays", st.EssaysRemaining)
	return nil
}

// RefreshSubscription applies expiry while the app is running.
func (c *Controller) RefreshSubscription(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked(ctx)
}

// refreshLocked expires a lapsed plan. A failed write is logged; the
// in-memory record is expired either way.
func (c *Controller) refreshLocked(ctx context.Context) {
	changed, err := c.counter.Refresh(ctx)
	if changed {
		c.logger.Info("subscription expired")
		c.journal.Warn("Premium subscription expired")
	}
	if err != nil {
		c.logger.Error("persist subscription", zap.Error(err))
		c.journal.Error("Could not save expired subscription: %v", err)
	}
}

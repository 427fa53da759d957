package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lore-sync/core/lore"
	"lore-sync/core/reconcile"

	"go.uber.org/zap"
)

// State is the scheduler's single-flight state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Triggers recorded on cycle reports.
const (
	TriggerStart  = "start"
	TriggerTick   = "tick"
	TriggerManual = "manual"
	TriggerWatch  = "watch"
)

// ErrBusy is returned when a cycle is requested while another one runs.
// The request is dropped, not queued.
var ErrBusy = errors.New("a sync cycle is already running")

// Runner runs one mode over categories; *reconcile.Orchestrator implements it.
type Runner interface {
	RunAll(ctx context.Context, mode reconcile.Mode, categories []lore.Category) map[lore.Category]reconcile.Result
}

// PreHook runs before a cycle. An error is recorded on the report; the cycle still runs.
type PreHook func(ctx context.Context, modes []reconcile.Mode) error

// PostHook receives every finished cycle.
type PostHook func(ctx context.Context, report *CycleReport)

// CycleReport is the outcome of one scheduler cycle.
type CycleReport struct {
	// Trigger says what started the cycle (start, tick, manual, watch).
	Trigger string `json:"trigger"`
	// Modes are the modes run, in order.
	Modes []reconcile.Mode `json:"modes"`
	// Categories are the categories each mode ran over.
	Categories []lore.Category `json:"categories"`
	// Results holds the per-category results of each mode.
	Results map[reconcile.Mode]map[lore.Category]reconcile.Result `json:"results"`
	// Summaries totals each mode.
	Summaries map[reconcile.Mode]reconcile.Summary `json:"summaries"`
	// HookErrors lists pre-cycle hook failures.
	HookErrors []string      `json:"hook_errors,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// Scheduler drives batch runs on a timer, on demand and on local changes,
// never running two cycles at once.
type Scheduler struct {
	cfg        Config
	runner     Runner
	categories []lore.Category
	logger     *zap.Logger

	mu          sync.Mutex
	state       State
	cycleCancel context.CancelFunc
	cycleDone   chan struct{}
	last        *CycleReport
	pre         []PreHook
	post        []PostHook

	loop    sync.WaitGroup
	stop    context.CancelFunc
	watcher *Watcher
}

// New creates an idle scheduler.
func New(cfg Config, runner Runner, categories []lore.Category, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(categories) == 0 {
		categories = lore.AllCategories
	}
	return &Scheduler{
		cfg:        cfg,
		runner:     runner,
		categories: categories,
		logger:     logger,
		state:      StateIdle,
	}
}

// OnPreCycle registers a hook run before every cycle.
func (s *Scheduler) OnPreCycle(h PreHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pre = append(s.pre, h)
}

// OnPostCycle registers a hook run after every cycle.
func (s *Scheduler) OnPostCycle(h PostHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.post = append(s.post, h)
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastReport returns the most recent finished cycle, or nil.
func (s *Scheduler) LastReport() *CycleReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// acquire moves Idle to Running. It is the only way a cycle starts.
func (s *Scheduler) acquire(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		return nil, ErrBusy
	}
	cctx, cancel := context.WithCancel(ctx)
	s.state = StateRunning
	s.cycleCancel = cancel
	s.cycleDone = make(chan struct{})
	return cctx, nil
}

func (s *Scheduler) release(report *CycleReport) {
	s.mu.Lock()
	if s.cycleCancel != nil {
		s.cycleCancel()
		s.cycleCancel = nil
	}
	s.state = StateIdle
	if report != nil {
		s.last = report
	}
	if s.cycleDone != nil {
		close(s.cycleDone)
		s.cycleDone = nil
	}
	s.mu.Unlock()
}

// TryRun runs one cycle of modes synchronously, or returns ErrBusy when a cycle is
// already running. The state returns to Idle even if the cycle panics.
func (s *Scheduler) TryRun(ctx context.Context, trigger string, modes ...reconcile.Mode) (*CycleReport, error) {
	return s.TryRunCategories(ctx, trigger, s.categories, modes...)
}

// TryRunCategories is TryRun restricted to categories. It shares the single-flight
// guard, so a one-category run never overlaps a scheduled cycle.
func (s *Scheduler) TryRunCategories(ctx context.Context, trigger string, categories []lore.Category, modes ...reconcile.Mode) (*CycleReport, error) {
	if len(modes) == 0 {
		return nil, errors.New("no modes requested")
	}
	if len(categories) == 0 {
		categories = s.categories
	}
	cctx, err := s.acquire(ctx)
	if err != nil {
		s.logger.Info("Cycle request ignored, scheduler busy", zap.String("trigger", trigger))
		return nil, err
	}
	return s.run(cctx, trigger, categories, modes)
}

// Trigger starts a cycle in the background. It reports false when one is already running.
func (s *Scheduler) Trigger(trigger string, modes ...reconcile.Mode) bool {
	if len(modes) == 0 {
		return false
	}
	cctx, err := s.acquire(context.Background())
	if err != nil {
		s.logger.Info("Cycle request ignored, scheduler busy", zap.String("trigger", trigger))
		return false
	}
	go func() {
		_, _ = s.run(cctx, trigger, s.categories, modes)
	}()
	return true
}

func (s *Scheduler) run(ctx context.Context, trigger string, categories []lore.Category, modes []reconcile.Mode) (report *CycleReport, err error) {
	report = &CycleReport{
		Trigger:    trigger,
		Modes:      modes,
		Categories: categories,
		Results:    map[reconcile.Mode]map[lore.Category]reconcile.Result{},
		Summaries:  map[reconcile.Mode]reconcile.Summary{},
		StartedAt:  time.Now(),
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cycle panicked: %v", p)
			s.logger.Error("Cycle panicked", zap.String("trigger", trigger), zap.Any("panic", p))
		}
		report.Duration = time.Since(report.StartedAt)
		s.release(report)
	}()

	s.mu.Lock()
	pre := append([]PreHook(nil), s.pre...)
	post := append([]PostHook(nil), s.post...)
	s.mu.Unlock()

	log := s.logger.With(zap.String("trigger", trigger))
	log.Info("Cycle started", zap.Any("modes", modes))

	for _, h := range pre {
		if herr := h(ctx, modes); herr != nil {
			report.HookErrors = append(report.HookErrors, herr.Error())
			log.Warn("Pre-cycle hook failed", zap.Error(herr))
		}
	}

	for _, mode := range modes {
		if ctx.Err() != nil {
			log.Warn("Cycle interrupted", zap.String("skipped_mode", string(mode)))
			break
		}
		results := s.runner.RunAll(ctx, mode, categories)
		report.Results[mode] = results
		report.Summaries[mode] = reconcile.Summarize(results)
	}

	for _, h := range post {
		h(ctx, report)
	}
	for mode, sum := range report.Summaries {
		log.Info("Cycle finished",
			zap.String("mode", string(mode)),
			zap.Int("created", sum.Created),
			zap.Int("updated", sum.Updated),
			zap.Int("unchanged", sum.Unchanged),
			zap.Int("skipped", sum.Skipped),
			zap.Int("failed", sum.Failed),
			zap.Any("fatal_categories", sum.FatalCategories),
		)
	}
	return report, nil
}

// startModes are the modes of the initial cycle.
func (s *Scheduler) startModes() []reconcile.Mode {
	var modes []reconcile.Mode
	if s.cfg.PullOnStart {
		modes = append(modes, reconcile.ModePull)
	}
	if s.cfg.PublishOnStart {
		modes = append(modes, reconcile.ModePublish)
	}
	return modes
}

// tickModes are the modes of every timer cycle.
func (s *Scheduler) tickModes() []reconcile.Mode {
	var modes []reconcile.Mode
	if s.cfg.PullEachCycle {
		modes = append(modes, reconcile.ModePull)
	}
	if s.cfg.PublishEachCycle {
		modes = append(modes, reconcile.ModePublish)
	}
	return modes
}

// Start runs the start cycle and launches the timer. It returns immediately.
// watchDir enables the local change watcher when Config.WatchLocal is set.
func (s *Scheduler) Start(ctx context.Context, watchDir string) error {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	lctx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	s.mu.Unlock()

	if s.cfg.WatchLocal && watchDir != "" {
		w, err := NewWatcher(watchDir, s.cfg.Debounce(), s.logger)
		if err != nil {
			cancel()
			s.mu.Lock()
			s.stop = nil
			s.mu.Unlock()
			return err
		}
		s.watcher = w
		w.Start(lctx, func() {
			s.Trigger(TriggerWatch, reconcile.ModePublish)
		})
	}

	s.loop.Add(1)
	go s.loopRun(lctx)
	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.cfg.Interval()),
		zap.Bool("watch_local", s.watcher != nil),
	)
	return nil
}

func (s *Scheduler) loopRun(ctx context.Context) {
	defer s.loop.Done()

	// Cycles outlive the loop context; Stop cancels them only after the grace period.
	cycleCtx := context.WithoutCancel(ctx)

	if modes := s.startModes(); len(modes) > 0 {
		_, _ = s.TryRun(cycleCtx, TriggerStart, modes...)
	}

	interval := s.cfg.Interval()
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if modes := s.tickModes(); len(modes) > 0 {
				_, _ = s.TryRun(cycleCtx, TriggerTick, modes...)
			}
		}
	}
}

// Stop halts the timer and the watcher, then waits for a running cycle. A cycle still
// running after the grace period is cancelled and awaited. Stop never leaves the
// scheduler Running.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop == nil {
		return nil
	}

	stop()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn("Failed to close watcher", zap.Error(err))
		}
		s.watcher = nil
	}

	loopDone := make(chan struct{})
	go func() {
		s.loop.Wait()
		close(loopDone)
	}()

	grace := time.NewTimer(s.cfg.Grace())
	defer grace.Stop()
	expired := false
	select {
	case <-loopDone:
	case <-grace.C:
		expired = true
	}

	s.mu.Lock()
	done := s.cycleDone
	s.mu.Unlock()
	if done != nil {
		if !expired {
			select {
			case <-done:
			case <-grace.C:
				expired = true
			}
		}
		if expired {
			s.logger.Warn("Grace period elapsed, cancelling running cycle", zap.Duration("grace", s.cfg.Grace()))
			s.cancelCycle()
			<-done
		}
	}
	<-loopDone
	s.logger.Info("Scheduler stopped")
	return nil
}

func (s *Scheduler) cancelCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cycleCancel != nil {
		s.cycleCancel()
	}
}

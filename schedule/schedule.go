// Package schedule re-runs fetch jobs at fixed intervals and applies only their current results.
//
// Every run of a job is tagged with a monotonic sequence number. When a run completes, its
// result is applied only if no later run of the same job has been issued and the scheduler
// has not been stopped; otherwise it is discarded. Stopping never aborts a run in flight, it
// only guarantees that its result is ignored.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Fetch performs one run of a job. On success it returns commit, the function applying the
// result to the application state. commit is called at most once, and only while the result
// is current. It must not call back into the Scheduler.
type Fetch func(ctx context.Context) (commit func(), err error)

// Job is a fetch re-run every interval.
type Job struct {
	Name  string
	Every time.Duration
	Fetch Fetch
	// OnError receives the error of a current run, in place of a commit. Optional.
	OnError func(error)
}

// Outcome is what became of a run.
type Outcome int

const (
	Applied   Outcome = iota // the run succeeded and was committed
	Failed                   // the run failed and OnError was called
	Discarded                // the run was stale or completed after Stop
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	case Discarded:
		return "discarded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Observer is notified of the outcome of every run.
type Observer func(job string, seq uint64, o Outcome)

// Scheduler runs jobs periodically. Its zero value is not usable, use New.
type Scheduler struct {
	clock   Clock
	log     *zap.SugaredLogger
	observe Observer

	mu      sync.Mutex // serializes commits, OnError calls and Stop.
	jobs    map[string]*job
	order   []*job
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc

	loops    sync.WaitGroup
	inflight sync.WaitGroup
}

type job struct {
	Job
	issued atomic.Uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver registers a function notified of every run outcome.
func WithObserver(o Observer) Option { return func(s *Scheduler) { s.observe = o } }

// New returns a scheduler driven by clock. A nil clock is the System clock.
func New(clock Clock, log *zap.SugaredLogger, opts ...Option) *Scheduler {
	if clock == nil {
		clock = System
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Scheduler{clock: clock, log: log, jobs: make(map[string]*job)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a job. Jobs must be added before Start.
func (s *Scheduler) Add(j Job) error {
	if j.Name == "" || j.Fetch == nil {
		return errors.New("schedule: a job needs a name and a fetch function")
	}
	if j.Every <= 0 {
		return fmt.Errorf("schedule: job %q has a non positive interval %v", j.Name, j.Every)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("schedule: cannot add job %q to a started scheduler", j.Name)
	}
	if _, ok := s.jobs[j.Name]; ok {
		return fmt.Errorf("schedule: duplicate job %q", j.Name)
	}
	jb := &job{Job: j}
	s.jobs[j.Name] = jb
	s.order = append(s.order, jb)
	return nil
}

// Start runs every job once immediately, then every job's interval, until Stop is called.
// Runs use ctx; cancelling ctx stops the timers too. A scheduler can be started only once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("schedule: already started")
	}
	s.started = true
	s.ctx = ctx
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	jobs := append([]*job(nil), s.order...)
	s.mu.Unlock()

	for _, j := range jobs {
		s.run(j)
		s.loops.Add(1)
		go s.loop(loopCtx, j)
	}
	s.log.Debugw("scheduler started", "jobs", len(jobs))
	return nil
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.loops.Done()
	ticker := s.clock.NewTicker(j.Every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.run(j)
		}
	}
}

// Trigger runs the named job now, outside of its interval. It reports false if the job is
// unknown or the scheduler is not running.
func (s *Scheduler) Trigger(name string) bool {
	s.mu.Lock()
	j, ok := s.jobs[name]
	running := s.started && !s.stopped
	s.mu.Unlock()
	if !ok || !running {
		return false
	}
	s.run(j)
	return true
}

// Once runs the named jobs, or every job when no name is given, once and concurrently. It
// returns when their results are settled. It does not start the timers; it is meant for
// one-shot reports. Unknown names are ignored.
func (s *Scheduler) Once(ctx context.Context, names ...string) {
	s.mu.Lock()
	var jobs []*job
	if len(names) == 0 {
		jobs = append(jobs, s.order...)
	}
	for _, name := range names {
		if j, ok := s.jobs[name]; ok {
			jobs = append(jobs, j)
		}
	}
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}

	var wg sync.WaitGroup
	for _, j := range jobs {
		seq := j.issued.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			commit, err := j.Fetch(ctx)
			s.settle(j, seq, commit, err)
		}()
	}
	wg.Wait()
}

// run issues a new run of j.
func (s *Scheduler) run(j *job) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	seq := j.issued.Add(1)
	s.inflight.Add(1)
	ctx := s.ctx
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()
		commit, err := j.Fetch(ctx)
		s.settle(j, seq, commit, err)
	}()
}

// settle applies the result of run seq of j if it is still current.
func (s *Scheduler) settle(j *job, seq uint64, commit func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var o Outcome
	switch {
	case s.stopped:
		o = Discarded
		s.log.Debugw("result after stop ignored", "job", j.Name, "seq", seq)
	case seq != j.issued.Load():
		o = Discarded
		s.log.Debugw("stale result ignored", "job", j.Name, "seq", seq, "latest", j.issued.Load())
	case err != nil:
		o = Failed
		s.log.Warnw("fetch failed", "job", j.Name, "seq", seq, "error", err)
		if j.OnError != nil {
			j.OnError(err)
		}
	default:
		o = Applied
		if commit != nil {
			commit()
		}
	}
	if s.observe != nil {
		s.observe(j.Name, seq, o)
	}
}

// Stop cancels the timers. Runs in flight complete but their results are discarded.
// Once Stop returns no commit or OnError is called anymore. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.loops.Wait()
	s.log.Debugw("scheduler stopped")
}

// Wait blocks until every run issued so far has settled.
func (s *Scheduler) Wait() { s.inflight.Wait() }

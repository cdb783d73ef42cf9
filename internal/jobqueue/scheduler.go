package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrNilOperation settles the completion of a job submitted without an
// operation.
var ErrNilOperation = errors.New("jobqueue: nil operation")

type job struct {
	ctx  context.Context
	op   Operation
	done *Completion
}

// bucket is the queue for one key. jobs is append-only between compactions;
// only the bucket's loop shrinks it.
type bucket struct {
	jobs    []*job
	pending atomic.Int64
}

// Stats is a point-in-time snapshot of Scheduler counters.
type Stats struct {
	Submitted   uint64
	Completed   uint64
	Failed      uint64
	Compactions uint64
	Buckets     int
}

// Scheduler runs operations one at a time per key, in submission order.
// The zero value is not usable; construct with New.
type Scheduler[K comparable] struct {
	opts options

	mu      sync.Mutex
	buckets map[K]*bucket
	idle    chan struct{} // closed while buckets is empty

	submitted   atomic.Uint64
	completed   atomic.Uint64
	failed      atomic.Uint64
	compactions atomic.Uint64
}

// New returns an empty Scheduler.
func New[K comparable](opts ...Option) *Scheduler[K] {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	idle := make(chan struct{})
	close(idle)
	return &Scheduler[K]{
		opts:    o,
		buckets: make(map[K]*bucket),
		idle:    idle,
	}
}

// Submit queues op behind every earlier submission for key and returns
// immediately. The returned Completion is settled with op's result once the
// bucket's loop reaches it. Submit never fails; op's error, or a recovered
// panic, is delivered through the Completion.
//
// ctx is passed to op when it runs. The Scheduler does not cancel it.
func (s *Scheduler[K]) Submit(ctx context.Context, key K, op Operation) *Completion {
	if ctx == nil {
		ctx = context.Background()
	}
	j := &job{ctx: ctx, op: op, done: newCompletion()}
	s.submitted.Add(1)

	s.mu.Lock()
	b, active := s.buckets[key]
	if !active {
		b = &bucket{}
		if len(s.buckets) == 0 {
			s.idle = make(chan struct{})
		}
		s.buckets[key] = b
	}
	b.jobs = append(b.jobs, j)
	b.pending.Add(1)
	s.mu.Unlock()

	if !active {
		s.opts.logger.Debug().Interface("bucket", key).Msg("bucket started")
		go s.run(key, b)
	}
	return j.done
}

// run drains b in windows of at most opts.limit jobs and deregisters the
// bucket once no job is waiting.
func (s *Scheduler[K]) run(key K, b *bucket) {
	limit := s.opts.limit
	offset := 0
	var processed uint64

	for {
		s.mu.Lock()
		end := min(len(b.jobs), limit)
		window := b.jobs[offset:end]
		s.mu.Unlock()

		// Entries below len(b.jobs) are never written by Submit, so the
		// window can be read without the lock.
		for _, j := range window {
			s.execute(j)
			b.pending.Add(-1)
		}
		processed += uint64(len(window))

		s.mu.Lock()
		if end >= len(b.jobs) {
			delete(s.buckets, key)
			if len(s.buckets) == 0 {
				close(s.idle)
			}
			s.mu.Unlock()
			s.opts.logger.Debug().
				Interface("bucket", key).
				Uint64("processed", processed).
				Msg("bucket drained")
			return
		}
		if end >= limit {
			backlog := len(b.jobs) - end
			rest := make([]*job, backlog)
			copy(rest, b.jobs[end:])
			b.jobs = rest
			offset = 0
			s.mu.Unlock()

			s.compactions.Add(1)
			s.opts.logger.Debug().
				Interface("bucket", key).
				Int("reclaimed", end).
				Int("backlog", backlog).
				Msg("bucket compacted")
			continue
		}
		offset = end
		s.mu.Unlock()
	}
}

func (s *Scheduler[K]) execute(j *job) {
	v, err := invoke(j)
	if err != nil {
		s.failed.Add(1)
	}
	s.completed.Add(1)
	j.done.settle(v, err)
}

func invoke(j *job) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	if j.op == nil {
		return nil, ErrNilOperation
	}
	return j.op(j.ctx)
}

// Active reports whether key currently has a bucket, i.e. queued or running
// work.
func (s *Scheduler[K]) Active(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[key]
	return ok
}

// Pending returns the number of jobs for key that have not finished yet,
// including one that is running.
func (s *Scheduler[K]) Pending(key K) int {
	s.mu.Lock()
	b, ok := s.buckets[key]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return int(b.pending.Load())
}

// Buckets returns the number of active buckets.
func (s *Scheduler[K]) Buckets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Stats returns the current counters.
func (s *Scheduler[K]) Stats() Stats {
	return Stats{
		Submitted:   s.submitted.Load(),
		Completed:   s.completed.Load(),
		Failed:      s.failed.Load(),
		Compactions: s.compactions.Load(),
		Buckets:     s.Buckets(),
	}
}

// Drain blocks until every bucket has drained or ctx is done. Work
// submitted while Drain waits keeps it waiting.
func (s *Scheduler[K]) Drain(ctx context.Context) error {
	for {
		s.mu.Lock()
		idle := s.idle
		s.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.Lock()
		empty := len(s.buckets) == 0
		s.mu.Unlock()
		if empty {
			return nil
		}
	}
}

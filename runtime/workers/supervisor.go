package workers

import (
	"context"
	"fmt"
	"log/slog"
	"market-chat/contract"
	"market-chat/errors"
	"sync"
	"time"
)

const (
	defaultRestartInterval    = 200 * time.Millisecond
	defaultMaxRestartInterval = 30 * time.Second
)

// Supervisor owns a context and its Cancel function.
// Each worker runs in its own goroutine, panics and errors are caught and the
// worker is restarted with an exponential backoff, until the context is canceled.
type Supervisor struct {
	Cancel     context.CancelFunc
	wg         *sync.WaitGroup
	log        *slog.Logger
	workers    []contract.Worker
	initial    time.Duration
	maxBackoff time.Duration
}

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{
		wg:         &sync.WaitGroup{},
		log:        log,
		initial:    defaultRestartInterval,
		maxBackoff: defaultMaxRestartInterval,
	}
}

// WithBackoff sets the first restart delay and its ceiling.
func (s *Supervisor) WithBackoff(initial, maxBackoff time.Duration) *Supervisor {
	if initial > 0 {
		s.initial = initial
	}
	if maxBackoff >= s.initial {
		s.maxBackoff = maxBackoff
	}
	return s
}

// Run blocks until every worker is done.
// If the parent cancels, we cancel. If we call s.Cancel(), only our children cancel.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs a worker under supervision.
// A worker returning nil is done for good. A worker returning an error or
// panicking is restarted after a delay that doubles on each consecutive
// failure, and is reset once the worker has stayed up longer than the ceiling.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()
		delay := s.initial

		for {
			if ctx.Err() != nil {
				s.log.Info(fmt.Sprintf("Stopping : %s", workerName))
				return
			}

			startedAt := time.Now()
			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info(fmt.Sprintf("Worker finished : %s", workerName))
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", workerName)
				return
			}

			if time.Since(startedAt) > s.maxBackoff {
				delay = s.initial
			}
			s.log.Warn("Worker crashed, restarting", "name", workerName, "error", err, "delay", delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, s.maxBackoff)
		}
	}()
}

// Stop cancels the supervised context, Run returns once all workers are done.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}

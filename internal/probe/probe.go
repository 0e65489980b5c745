// Package probe tracks whether the agent backend is reachable.
package probe

import (
	"context"
	"io"
	"log"
	"sync"

	"agentchat/internal/state"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusChecking
	StatusConnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Checker is the remote health endpoint.
type Checker interface {
	Health(ctx context.Context) error
}

// Prober runs the unknown → checking → connected|error state machine. Every
// completed check may be followed by another one; there is no terminal state.
type Prober struct {
	checker Checker
	logger  *log.Logger
	status  *state.Cell[Status]

	mu      sync.Mutex
	lastErr error
}

func New(checker Checker, logger *log.Logger) *Prober {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Prober{
		checker: checker,
		logger:  logger,
		status:  state.NewCell(StatusUnknown),
	}
}

func (p *Prober) Status() state.Value[Status] { return p.status }

// LastError returns the failure behind the most recent error status.
func (p *Prober) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Begin moves to checking. It returns false when a check is already running.
func (p *Prober) Begin() bool {
	return p.status.Swap(func(cur Status) bool { return cur != StatusChecking }, StatusChecking)
}

// Probe calls the health endpoint without touching state.
func (p *Prober) Probe(ctx context.Context) error {
	return p.checker.Health(ctx)
}

// Settle resolves a running check. Calls while not checking are ignored.
func (p *Prober) Settle(err error) bool {
	next := StatusConnected
	if err != nil {
		next = StatusError
	}
	if !p.status.Swap(func(cur Status) bool { return cur == StatusChecking }, next) {
		return false
	}
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	if err != nil {
		p.logger.Printf("health check failed: %v", err)
	}
	return true
}

// Check runs a whole probe synchronously. ok is false when another check was
// already in progress.
func (p *Prober) Check(ctx context.Context) (status Status, ok bool) {
	if !p.Begin() {
		return StatusChecking, false
	}
	p.Settle(p.Probe(ctx))
	return p.status.Get(), true
}

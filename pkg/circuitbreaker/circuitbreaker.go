package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type excludedError struct {
	err error
}

func (e excludedError) Error() string { return e.err.Error() }
func (e excludedError) Unwrap() error { return e.err }

// Exclude marks an error that says nothing about the guarded dependency,
// such as a caller giving up. Call returns the inner error without
// counting it as a success or a failure.
func Exclude(err error) error {
	if err == nil {
		return nil
	}
	return excludedError{err: err}
}

type State int

const (
	// Closed lets every call through.
	Closed State = iota
	// Open rejects calls until the recovery timeout elapses.
	Open
	// HalfOpen lets a single probe through at a time.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker guards calls and opens the circuit after repeated failures.
type CircuitBreaker interface {
	Call(func() error) error
	State() State
	Reset()
}

type Config struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
	// SuccessThreshold is the number of consecutive probes that must
	// succeed in HalfOpen before the circuit closes.
	SuccessThreshold int

	// OnStateChange, if set, runs after every transition. It must not call
	// back into the breaker.
	OnStateChange func(from, to State)

	now func() time.Time
}

func DefaultConfig() *Config {
	return &Config{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 1,
	}
}

type circuitBreaker struct {
	cfg Config

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	probing     bool
	nextAttempt time.Time
}

// NewCircuitBreaker applies DefaultConfig when cfg is nil and fills any
// non-positive threshold from it.
func NewCircuitBreaker(cfg *Config) CircuitBreaker {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}

	c := *cfg
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = defaults.RecoveryTimeout
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = defaults.SuccessThreshold
	}
	if c.now == nil {
		c.now = time.Now
	}

	return &circuitBreaker{cfg: c, state: Closed}
}

func (cb *circuitBreaker) Call(fn func() error) error {
	probe, t, err := cb.acquire()
	cb.notify(t)
	if err != nil {
		return err
	}

	// fn runs unlocked; it is usually a network round trip.
	callErr := fn()

	var excluded excludedError
	if errors.As(callErr, &excluded) {
		cb.abandon(probe)
		return excluded.err
	}

	cb.notify(cb.release(probe, callErr))
	return callErr
}

func (cb *circuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	t := cb.setState(Closed)
	cb.mu.Unlock()
	cb.notify(t)
}

type transition struct {
	from, to State
}

// acquire reports whether the admitted call is the HalfOpen probe.
func (cb *circuitBreaker) acquire() (bool, *transition, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	var t *transition
	if cb.state == Open {
		if cb.cfg.now().Before(cb.nextAttempt) {
			return false, nil, ErrCircuitOpen
		}
		t = cb.setState(HalfOpen)
	}

	if cb.state != HalfOpen {
		return false, t, nil
	}
	if cb.probing {
		return false, t, ErrCircuitOpen
	}
	cb.probing = true
	return true, t, nil
}

// abandon frees the probe slot without recording an outcome.
func (cb *circuitBreaker) abandon(probe bool) {
	if !probe {
		return
	}
	cb.mu.Lock()
	cb.probing = false
	cb.mu.Unlock()
}

func (cb *circuitBreaker) release(probe bool, err error) *transition {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// Outcomes of calls admitted before the last transition only count
	// while the circuit is still closed.
	if probe {
		cb.probing = false
	} else if cb.state != Closed {
		return nil
	}

	if err != nil {
		cb.failures++
		if probe || cb.failures >= cb.cfg.FailureThreshold {
			return cb.setState(Open)
		}
		return nil
	}

	cb.failures = 0
	if probe {
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			return cb.setState(Closed)
		}
	}
	return nil
}

// setState resets the counters for the new state. Callers hold mu.
func (cb *circuitBreaker) setState(to State) *transition {
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	cb.probing = false
	if to == Open {
		cb.nextAttempt = cb.cfg.now().Add(cb.cfg.RecoveryTimeout)
	}

	if from == to {
		return nil
	}
	return &transition{from: from, to: to}
}

func (cb *circuitBreaker) notify(t *transition) {
	if t != nil && cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(t.from, t.to)
	}
}

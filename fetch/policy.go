package fetch

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// State is the lifecycle position of a scrape attempt.
type State int

const (
	Pending State = iota
	InFlight
	Success
	RetryScheduled
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case InFlight:
		return "in-flight"
	case Success:
		return "success"
	case RetryScheduled:
		return "retry-scheduled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Success || s == Failed
}

// Attempt describes one scrape call at a point of its lifecycle.
type Attempt struct {
	URL       string
	Number    int
	State     State
	Status    int
	Err       error
	NextDelay time.Duration
}

// Outcome is the result of the request issued while InFlight.
type Outcome struct {
	Status int
	Err    error
}

// Policy decides retries. It performs no I/O.
type Policy struct {
	// MaxRetries is the maximum number of attempts, the first one included.
	MaxRetries int
	BaseDelay  time.Duration
	// Penalty multiplies the delay after a 403 or 429 answer.
	Penalty int
}

// DefaultPolicy is three attempts, one second apart, tripled when rate limited.
var DefaultPolicy = Policy{MaxRetries: 3, BaseDelay: time.Second, Penalty: 3}

// Start returns the initial attempt for url.
func (p Policy) Start(url string) Attempt {
	return Attempt{URL: url, State: Pending}
}

// Next returns the attempt following a. The outcome is only consulted for
// InFlight attempts; terminal attempts are returned unchanged.
func (p Policy) Next(a Attempt, o Outcome) Attempt {
	switch a.State {
	case Pending, RetryScheduled:
		a.Number++
		a.State = InFlight
		a.Status, a.Err, a.NextDelay = 0, nil, 0
		return a

	case InFlight:
		a.Status, a.Err = o.Status, o.Err
		if o.Err == nil {
			a.State = Success
			return a
		}
		if !Retryable(o.Err) || a.Number >= p.maxAttempts() {
			a.State = Failed
			return a
		}
		a.State = RetryScheduled
		a.NextDelay = p.delay(a.Number, o.Status)
		return a

	default:
		return a
	}
}

func (p Policy) maxAttempts() int {
	if p.MaxRetries < 1 {
		return 1
	}
	return p.MaxRetries
}

// delay is BaseDelay*attempt, multiplied by Penalty for 403/429.
func (p Policy) delay(attempt, status int) time.Duration {
	d := p.BaseDelay * time.Duration(attempt)
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		penalty := p.Penalty
		if penalty < 1 {
			penalty = 1
		}
		d *= time.Duration(penalty)
	}
	return d
}

// Retryable reports whether err may succeed when the request is repeated.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}

	var netErr *NetworkError
	var statusErr *HTTPStatusError
	return errors.As(err, &netErr) || errors.As(err, &statusErr)
}

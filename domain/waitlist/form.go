package waitlist

import (
	"context"
	"sync"
)

const (
	SuccessMessage = "Thanks for signing up! We'll be in touch soon."
	FailureMessage = "This email has already signed up or something went wrong."

	SubmitLabel        = "Start Building Free"
	SubmitPendingLabel = "Processing..."
)

type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is the transient toast shown after a submission resolves.
type Notification struct {
	Kind NotificationKind
	Text string
}

// ClassifySubmissionError maps a failed submission to what the visitor sees.
// Every failure currently collapses to the same generic message.
func ClassifySubmissionError(err error) Notification {
	return Notification{Kind: NotificationError, Text: FailureMessage}
}

// Form holds the state of one waitlist form. It is safe to observe from
// other goroutines while a submission is in flight.
type Form struct {
	service WaitlistService

	mu           sync.RWMutex
	email        string
	state        SubmissionState
	notification *Notification
}

func NewForm(service WaitlistService, email string) *Form {
	return &Form{service: service, email: email, state: StateIdle}
}

func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
}

func (f *Form) Email() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.email
}

func (f *Form) State() SubmissionState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Notification returns nil when there is nothing to show.
func (f *Form) Notification() *Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.notification == nil {
		return nil
	}
	n := *f.notification
	return &n
}

func (f *Form) SubmitDisabled() bool {
	return f.State() == StatePending
}

func (f *Form) SubmitLabel() string {
	if f.State() == StatePending {
		return SubmitPendingLabel
	}
	return SubmitLabel
}

// Submit sends the current email to the waitlist. An empty email is a no-op.
// The input is cleared only on success.
func (f *Form) Submit(ctx context.Context) SubmissionState {
	f.mu.Lock()
	email := f.email
	if email == "" {
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.state = StatePending
	f.notification = nil
	f.mu.Unlock()

	_, err := f.service.Join(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		n := ClassifySubmissionError(err)
		f.notification = &n
		f.state = StateFailed
		return f.state
	}

	f.notification = &Notification{Kind: NotificationSuccess, Text: SuccessMessage}
	f.email = ""
	f.state = StateSucceeded
	return f.state
}

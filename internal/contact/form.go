package contact

import (
	"context"
	"errors"
	"sync"
)

// ErrSubmitting is returned by Submit while a previous submission is still
// in flight.
var ErrSubmitting = errors.New("submission already in progress")

// State of a Form.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Form owns one visitor's input and drives a submission through Sender.
// A Form is safe for concurrent use; at most one submission is in flight.
type Form struct {
	sender   Sender
	notifier Notifier

	mu     sync.Mutex
	fields Message
	state  State
}

// NewForm returns an empty Idle form.
func NewForm(sender Sender, notifier Notifier) *Form {
	return &Form{sender: sender, notifier: notifier}
}

// Set updates one field.
func (f *Form) Set(field Field, value string) {
	f.mu.Lock()
	f.fields.Set(field, value)
	f.mu.Unlock()
}

// Fill replaces every field.
func (f *Form) Fill(m Message) {
	f.mu.Lock()
	f.fields = m
	f.mu.Unlock()
}

// Values returns the current field values.
func (f *Form) Values() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Disabled reports whether the submit control is disabled.
func (f *Form) Disabled() bool {
	return f.State() == Submitting
}

// Submit sends the current fields. Empty fields fail with ErrValidation and
// a concurrent call fails with ErrSubmitting; neither reaches the Sender nor
// changes state. Otherwise the outcome is reported to the Notifier: on
// success the fields are cleared, on failure they are kept for another try.
// The returned error is the Sender's.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrSubmitting
	}
	if err := f.fields.Validate(); err != nil {
		f.mu.Unlock()
		return err
	}
	msg := f.fields
	f.state = Submitting
	f.mu.Unlock()

	err := f.sender.Send(ctx, msg)

	f.mu.Lock()
	f.state = Idle
	if err == nil {
		f.fields = Message{}
	}
	f.mu.Unlock()

	if err != nil {
		f.notify(failureNotification(err))
		return err
	}
	f.notify(successNotification())
	return nil
}

func (f *Form) notify(n Notification) {
	if f.notifier != nil {
		f.notifier.Notify(n)
	}
}

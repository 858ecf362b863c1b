package contact

import (
	"errors"
	"sync"
)

// Kind is the notification variant.
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	}
	return "unknown"
}

// Notification is a toast shown after a submission resolves.
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

const (
	successTitle       = "Message sent successfully!"
	successDescription = "Thank you for reaching out. I'll get back to you soon."
	failureTitle       = "Failed to send message"
	rejectedFallback   = "Please try again later."
	transportFallback  = "Please try again later or contact me directly."
)

func successNotification() Notification {
	return Notification{Kind: KindSuccess, Title: successTitle, Description: successDescription}
}

// failureNotification uses the endpoint's own error text when it supplied
// one. Rejections without text and transport failures get a fallback.
func failureNotification(err error) Notification {
	n := Notification{Kind: KindFailure, Title: failureTitle, Description: transportFallback}

	var de *DeliveryError
	if errors.As(err, &de) {
		n.Description = rejectedFallback
		if de.ServerMessage != "" {
			n.Description = de.ServerMessage
		}
	}
	return n
}

// Recorder is a Notifier that keeps every notification. Safe for
// concurrent use.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.list = append(r.list, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.list...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.list) == 0 {
		return Notification{}, false
	}
	return r.list[len(r.list)-1], true
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

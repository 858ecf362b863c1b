package contact

import "context"

// Sender delivers a message to the relay endpoint. A nil error means the
// endpoint accepted it.
//
//go:generate mockgen -package mockcontact -source=interface.go -destination=mock/mockcontact.go
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier presents a notification to the visitor.
type Notifier interface {
	Notify(n Notification)
}

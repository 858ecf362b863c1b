// Package contact implements the contact form's submission flow: the four
// required fields, the Idle/Submitting state machine, the JSON client that
// relays a message to the mail endpoint, and the notifications shown to the
// visitor afterwards.
package contact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is returned when a required field is empty.
var ErrValidation = errors.New("missing required field")

// Message is one visitor's message. It is the relay payload as well.
type Message struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Subject string `json:"subject" form:"subject" binding:"required"`
	Message string `json:"message" form:"message" binding:"required"`
}

// Field names a form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields in form order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// Get returns the value of f.
func (m Message) Get(f Field) string {
	switch f {
	case FieldName:
		return m.Name
	case FieldEmail:
		return m.Email
	case FieldSubject:
		return m.Subject
	case FieldMessage:
		return m.Message
	}
	return ""
}

// Set assigns v to f. Unknown fields are ignored.
func (m *Message) Set(f Field, v string) {
	switch f {
	case FieldName:
		m.Name = v
	case FieldEmail:
		m.Email = v
	case FieldSubject:
		m.Subject = v
	case FieldMessage:
		m.Message = v
	}
}

// Missing lists the fields that are empty or whitespace only.
func (m Message) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if strings.TrimSpace(m.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate returns ErrValidation naming the first empty field.
func (m Message) Validate() error {
	if missing := m.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, missing[0])
	}
	return nil
}

// IsZero reports whether every field is empty.
func (m Message) IsZero() bool {
	return m == Message{}
}

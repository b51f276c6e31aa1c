package komorebi

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMalformedNotification is returned for notification documents that are
// not valid UTF-8 JSON or do not carry the expected envelope.
var ErrMalformedNotification = errors.New("malformed notification")

// EventSource distinguishes the two notification event families the daemon
// emits: commands it processed over its control socket, and window-manager
// lifecycle events it observed.
type EventSource string

const (
	SourceSocket        EventSource = "Socket"
	SourceWindowManager EventSource = "WindowManager"
)

// Event is the decoded event-kind tag of a notification. Kind is the
// daemon's string tag for the concrete command or lifecycle event; unknown
// kinds decode fine and are left to the relevance filter to ignore.
type Event struct {
	Source EventSource
	Kind   string
}

// Notification is one message pushed to a subscriber socket: the event that
// occurred plus the daemon's full state at that moment.
type Notification struct {
	Event Event
	State State
}

type notificationEnvelope struct {
	Event struct {
		Type    string          `json:"type"`
		Content json.RawMessage `json:"content"`
	} `json:"event"`
	State State `json:"state"`
}

type eventContent struct {
	Type string `json:"type"`
}

// DecodeNotification parses a single JSON notification document. Malformed
// input of any shape yields ErrMalformedNotification; callers drop the
// message and keep reading.
func DecodeNotification(data []byte) (Notification, error) {
	if !utf8.Valid(data) {
		return Notification{}, fmt.Errorf("%w: not valid UTF-8", ErrMalformedNotification)
	}

	var env notificationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}

	source := EventSource(env.Event.Type)
	switch source {
	case SourceSocket, SourceWindowManager:
	default:
		return Notification{}, fmt.Errorf("%w: unknown event source %q", ErrMalformedNotification, env.Event.Type)
	}

	var content eventContent
	if err := json.Unmarshal(env.Event.Content, &content); err != nil {
		return Notification{}, fmt.Errorf("%w: event content: %v", ErrMalformedNotification, err)
	}
	if content.Type == "" {
		return Notification{}, fmt.Errorf("%w: event content has no kind tag", ErrMalformedNotification)
	}

	return Notification{
		Event: Event{Source: source, Kind: content.Type},
		State: env.State,
	}, nil
}

// Package notify holds transient user notifications and the queue that
// expires them.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Kind represents the flavour of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	}
	return false
}

// Default durations per kind.
const (
	DefaultDuration = 5 * time.Second
	SuccessDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
	WarningDuration = 4 * time.Second
	InfoDuration    = 3 * time.Second
)

// Durations holds the display time of each kind for the Show helpers.
type Durations struct {
	Success time.Duration
	Error   time.Duration
	Warning time.Duration
	Info    time.Duration
}

// DefaultDurations returns the per-kind defaults.
func DefaultDurations() Durations {
	return Durations{
		Success: SuccessDuration,
		Error:   ErrorDuration,
		Warning: WarningDuration,
		Info:    InfoDuration,
	}
}

// DefaultKind is used by AddDefault and when Add receives an empty kind.
const DefaultKind = KindInfo

// Notification is a single transient message. A zero Duration means it
// stays until removed explicitly.
type Notification struct {
	ID        uuid.UUID     `json:"id"`
	Kind      Kind          `json:"kind"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Persistent reports whether n only goes away when dismissed.
func (n Notification) Persistent() bool {
	return n.Duration <= 0
}

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity classifies how prominently an announcement should be surfaced.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// ParseSeverity maps a request token onto the closed severity set. The match
// is case-insensitive; anything outside the set is an error.
func ParseSeverity(token string) (Severity, error) {
	switch Severity(strings.ToUpper(strings.TrimSpace(token))) {
	case SeverityInfo:
		return SeverityInfo, nil
	case SeverityWarning:
		return SeverityWarning, nil
	case SeverityError:
		return SeverityError, nil
	default:
		return "", fmt.Errorf("unknown severity %q", token)
	}
}

// Announcement is a time-windowed service message shown to users while
// "now" falls inside [StartDate, EndDate). Stored windows never overlap.
type Announcement struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	Message   string    `json:"message" db:"message"`
	Severity  Severity  `json:"severity" db:"severity"`
	Notified  bool      `json:"notified" db:"notified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ActiveAt reports whether the announcement window contains t,
// using half-open interval semantics.
func (a *Announcement) ActiveAt(t time.Time) bool {
	return !a.StartDate.After(t) && t.Before(a.EndDate)
}

// ExpiredAt reports whether the window has fully passed at t.
func (a *Announcement) ExpiredAt(t time.Time) bool {
	return a.EndDate.Before(t)
}

// Duration is the length of the announcement window.
func (a *Announcement) Duration() time.Duration {
	return a.EndDate.Sub(a.StartDate)
}

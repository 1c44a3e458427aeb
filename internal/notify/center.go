// Package notify accumulates application-lifecycle notifications, tracks
// read state, and drives the single transient alert surface shown in the
// header. The log is bounded: the oldest events are evicted silently once
// capacity is reached.
package notify

import (
	"fmt"
	"sync"
	"time"
)

// Capacity is the maximum number of events retained in the log.
const Capacity = 50

// Severity represents the urgency level of a transient alert.
type Severity int

const (
	// SeverityInfo indicates an informational alert.
	SeverityInfo Severity = iota
	// SeveritySuccess indicates a positive outcome.
	SeveritySuccess
	// SeverityWarning indicates an alert that needs user attention.
	SeverityWarning
)

// String returns a human-readable string for the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Kind identifies the category of notification.
type Kind string

const (
	// KindApplicationReceived indicates a provider applied for one of
	// the clinic's gigs.
	KindApplicationReceived Kind = "application_received"
	// KindApplicationAccepted indicates the provider's application was
	// accepted.
	KindApplicationAccepted Kind = "application_accepted"
	// KindApplicationRejected indicates the provider's application was
	// rejected or otherwise updated.
	KindApplicationRejected Kind = "application_rejected"
	// KindGeneric is used for notifications outside the recognized
	// business events.
	KindGeneric Kind = "generic"
)

// severityFor derives the transient alert severity from an event kind.
func severityFor(kind Kind) Severity {
	switch kind {
	case KindApplicationAccepted:
		return SeveritySuccess
	case KindApplicationRejected:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Event is a single notification in the log. Events transition from
// unread to read exactly once and are removed only by capacity eviction.
type Event struct {
	// ID is unique and increases with creation order.
	ID uint64

	// Kind categorizes the event.
	Kind Kind

	// Title and Message are the display strings.
	Title   string
	Message string

	// Read reports whether the user has seen this event.
	Read bool

	// CreatedAt is when the event was enqueued.
	CreatedAt time.Time

	// OnActivate is an optional navigation callback invoked when the
	// user activates the event in the notification panel. Advisory
	// only; never persisted.
	OnActivate func()
}

// Severity returns the display severity derived from the event kind.
func (e Event) Severity() Severity {
	return severityFor(e.Kind)
}

// Alert is the single transient alert slot. A new alert replaces any
// visible one; there is no alert queue.
type Alert struct {
	Message  string
	Severity Severity
	Visible  bool
}

// Center is the notification state manager. All mutations are serialized
// behind a mutex so the unread counter can never drift from a recount,
// even with poller goroutines enqueuing concurrently.
type Center struct {
	mu sync.Mutex

	nextID uint64
	// events is ordered newest-first and never exceeds Capacity.
	events []Event
	unread int

	alert        Alert
	alertShownAt time.Time
	dismissAfter time.Duration
}

// NewCenter creates a notification center whose transient alerts
// auto-dismiss after the given duration.
func NewCenter(dismissAfter time.Duration) *Center {
	if dismissAfter <= 0 {
		dismissAfter = 6 * time.Second
	}
	return &Center{
		events:       make([]Event, 0, Capacity),
		dismissAfter: dismissAfter,
	}
}

// Enqueue adds an event to the log, assigning its ID and timestamp, and
// raises the transient alert for it. If the log is full the oldest event
// is evicted silently; evicting an unread event keeps the unread counter
// consistent with a recount. Returns the stored event.
func (c *Center) Enqueue(e Event) Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	e.ID = c.nextID
	e.CreatedAt = time.Now()
	e.Read = false
	if e.Kind == "" {
		e.Kind = KindGeneric
	}

	c.events = append([]Event{e}, c.events...)
	c.unread++

	for len(c.events) > Capacity {
		evicted := c.events[len(c.events)-1]
		c.events = c.events[:len(c.events)-1]
		if !evicted.Read {
			c.unread--
		}
	}

	c.alert = Alert{
		Message:  e.Message,
		Severity: severityFor(e.Kind),
		Visible:  true,
	}
	c.alertShownAt = e.CreatedAt

	return e
}

// MarkAsRead flips the matching event to read and decrements the unread
// counter. Unknown IDs and already-read events are silently ignored.
func (c *Center) MarkAsRead(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.events {
		if c.events[i].ID != id {
			continue
		}
		if !c.events[i].Read {
			c.events[i].Read = true
			if c.unread > 0 {
				c.unread--
			}
		}
		return
	}
}

// MarkAllAsRead flips every event to read and zeroes the unread counter.
// Idempotent.
func (c *Center) MarkAllAsRead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.events {
		c.events[i].Read = true
	}
	c.unread = 0
}

// DismissAlert hides the transient alert without touching the event log
// or read state.
func (c *Center) DismissAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.alert = Alert{}
	c.alertShownAt = time.Time{}
}

// CheckAlertTimeout dismisses the alert if it has been visible longer
// than the auto-dismiss duration. Returns true if it was dismissed.
func (c *Center) CheckAlertTimeout() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alert.Visible || c.alertShownAt.IsZero() {
		return false
	}

	if time.Since(c.alertShownAt) >= c.dismissAfter {
		c.alert = Alert{}
		c.alertShownAt = time.Time{}
		return true
	}

	return false
}

// ActiveAlert returns the current transient alert. Visible is false when
// no alert is showing.
func (c *Center) ActiveAlert() Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alert
}

// Events returns a copy of the log, newest first.
func (c *Center) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// UnreadCount returns the number of unread events.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// NotifyApplicationReceived enqueues the clinic-side event raised when a
// provider applies for a gig.
func (c *Center) NotifyApplicationReceived(providerName, gigTitle string) Event {
	return c.Enqueue(Event{
		Kind:    KindApplicationReceived,
		Title:   "New Application Received",
		Message: fmt.Sprintf("%s applied for %s", providerName, gigTitle),
	})
}

// NotifyApplicationStatusChanged enqueues the provider-side event raised
// when a clinic accepts or otherwise updates an application. Any status
// other than "accepted" is reported as a plain update.
func (c *Center) NotifyApplicationStatusChanged(status, gigTitle string) Event {
	if status == "accepted" {
		return c.Enqueue(Event{
			Kind:  KindApplicationAccepted,
			Title: "Application Accepted!",
			Message: fmt.Sprintf(
				"Congratulations! Your application for %s has been accepted.",
				gigTitle,
			),
		})
	}

	return c.Enqueue(Event{
		Kind:  KindApplicationRejected,
		Title: "Application Update",
		Message: fmt.Sprintf(
			"Your application for %s has been updated.", gigTitle,
		),
	})
}

package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recountUnread recomputes the unread total from the log itself.
func recountUnread(c *Center) int {
	n := 0
	for _, e := range c.Events() {
		if !e.Read {
			n++
		}
	}
	return n
}

func TestEnqueueOrdersNewestFirst(t *testing.T) {
	c := NewCenter(0)

	for i := 1; i <= 3; i++ {
		c.Enqueue(Event{Title: fmt.Sprintf("event %d", i)})
	}

	events := c.Events()
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].Title != "event 3" || events[2].Title != "event 1" {
		t.Errorf("events not newest-first: got %q .. %q",
			events[0].Title, events[2].Title)
	}
	for i := 1; i < len(events); i++ {
		if events[i].ID >= events[i-1].ID {
			t.Errorf("IDs not descending: events[%d].ID=%d, events[%d].ID=%d",
				i-1, events[i-1].ID, i, events[i].ID)
		}
	}
}

func TestEnqueueEvictsBeyondCapacity(t *testing.T) {
	c := NewCenter(0)

	for i := 0; i < Capacity+10; i++ {
		c.Enqueue(Event{Title: fmt.Sprintf("event %d", i)})
	}

	events := c.Events()
	if len(events) != Capacity {
		t.Fatalf("len(events) = %d, want %d", len(events), Capacity)
	}
	// The oldest surviving event is the 11th enqueued.
	if events[len(events)-1].Title != "event 10" {
		t.Errorf("oldest surviving event = %q, want %q",
			events[len(events)-1].Title, "event 10")
	}
	if got := c.UnreadCount(); got != Capacity {
		t.Errorf("UnreadCount() = %d, want %d", got, Capacity)
	}
}

func TestEvictionAdjustsUnreadForReadTail(t *testing.T) {
	c := NewCenter(0)

	// Fill to capacity, then mark the two oldest as read.
	var ids []uint64
	for i := 0; i < Capacity; i++ {
		e := c.Enqueue(Event{Title: fmt.Sprintf("event %d", i)})
		ids = append(ids, e.ID)
	}
	c.MarkAsRead(ids[0])
	c.MarkAsRead(ids[1])

	if got := c.UnreadCount(); got != Capacity-2 {
		t.Fatalf("UnreadCount() = %d, want %d", got, Capacity-2)
	}

	// Two more enqueues evict the two read events; the unread counter
	// must not drop for them.
	c.Enqueue(Event{Title: "overflow 1"})
	c.Enqueue(Event{Title: "overflow 2"})

	if got := c.UnreadCount(); got != Capacity {
		t.Errorf("UnreadCount() = %d, want %d", got, Capacity)
	}
	if got, want := c.UnreadCount(), recountUnread(c); got != want {
		t.Errorf("UnreadCount() = %d, recount = %d", got, want)
	}
	if got := len(c.Events()); got != Capacity {
		t.Errorf("len(events) = %d, want %d", got, Capacity)
	}
}

func TestUnreadMatchesRecountThroughMixedOperations(t *testing.T) {
	c := NewCenter(0)

	var ids []uint64
	for i := 0; i < 30; i++ {
		e := c.Enqueue(Event{Title: fmt.Sprintf("event %d", i)})
		ids = append(ids, e.ID)
	}

	c.MarkAsRead(ids[3])
	c.MarkAsRead(ids[3]) // repeat is a no-op
	c.MarkAsRead(ids[17])
	c.MarkAsRead(999999) // unknown ID is a no-op

	for i := 0; i < 40; i++ {
		c.Enqueue(Event{Title: fmt.Sprintf("late %d", i)})
	}

	if got, want := c.UnreadCount(), recountUnread(c); got != want {
		t.Errorf("UnreadCount() = %d, recount = %d", got, want)
	}
}

func TestMarkAsReadIsOneWay(t *testing.T) {
	c := NewCenter(0)
	e := c.Enqueue(Event{Title: "once"})

	c.MarkAsRead(e.ID)
	if got := c.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount() = %d, want 0", got)
	}

	c.MarkAsRead(e.ID)
	if got := c.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount() after repeat = %d, want 0", got)
	}
	if !c.Events()[0].Read {
		t.Error("event flipped back to unread")
	}
}

func TestMarkAllAsReadThenMarkAsReadIsNoOp(t *testing.T) {
	c := NewCenter(0)

	var ids []uint64
	for i := 0; i < 5; i++ {
		e := c.Enqueue(Event{Title: fmt.Sprintf("event %d", i)})
		ids = append(ids, e.ID)
	}

	c.MarkAllAsRead()
	if got := c.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount() = %d, want 0", got)
	}

	for _, id := range ids {
		c.MarkAsRead(id)
	}
	c.MarkAllAsRead()

	if got := c.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount() = %d, want 0", got)
	}
	if got, want := c.UnreadCount(), recountUnread(c); got != want {
		t.Errorf("UnreadCount() = %d, recount = %d", got, want)
	}
}

func TestEnqueueRaisesAlertAndReplacesPrevious(t *testing.T) {
	c := NewCenter(0)

	c.Enqueue(Event{Kind: KindApplicationAccepted, Message: "first"})
	c.Enqueue(Event{Kind: KindApplicationRejected, Message: "second"})

	alert := c.ActiveAlert()
	if !alert.Visible {
		t.Fatal("alert not visible after enqueue")
	}
	if alert.Message != "second" {
		t.Errorf("alert.Message = %q, want %q", alert.Message, "second")
	}
	if alert.Severity != SeverityWarning {
		t.Errorf("alert.Severity = %v, want %v", alert.Severity, SeverityWarning)
	}
}

func TestDismissAlertKeepsLogAndReadState(t *testing.T) {
	c := NewCenter(0)
	c.Enqueue(Event{Title: "kept"})

	c.DismissAlert()

	if c.ActiveAlert().Visible {
		t.Error("alert still visible after dismiss")
	}
	if got := len(c.Events()); got != 1 {
		t.Errorf("len(events) = %d, want 1", got)
	}
	if got := c.UnreadCount(); got != 1 {
		t.Errorf("UnreadCount() = %d, want 1", got)
	}
}

func TestCheckAlertTimeout(t *testing.T) {
	c := NewCenter(20 * time.Millisecond)

	if c.CheckAlertTimeout() {
		t.Error("CheckAlertTimeout() true with no alert")
	}

	c.Enqueue(Event{Message: "transient"})
	if c.CheckAlertTimeout() {
		t.Error("alert dismissed before the timeout elapsed")
	}

	time.Sleep(30 * time.Millisecond)
	if !c.CheckAlertTimeout() {
		t.Fatal("alert not dismissed after the timeout elapsed")
	}
	if c.ActiveAlert().Visible {
		t.Error("alert still visible after timeout dismissal")
	}
	if c.CheckAlertTimeout() {
		t.Error("second CheckAlertTimeout() reported another dismissal")
	}
}

func TestNotifyApplicationReceived(t *testing.T) {
	c := NewCenter(0)

	e := c.NotifyApplicationReceived("Mary Banda", "Night Shift Nurse")

	if e.Title != "New Application Received" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.Message != "Mary Banda applied for Night Shift Nurse" {
		t.Errorf("Message = %q", e.Message)
	}
	if e.Severity() != SeverityInfo {
		t.Errorf("Severity() = %v, want %v", e.Severity(), SeverityInfo)
	}
}

func TestNotifyApplicationStatusChangedAccepted(t *testing.T) {
	c := NewCenter(0)

	e := c.NotifyApplicationStatusChanged("accepted", "Night Shift Nurse")

	if !strings.Contains(e.Title, "Accepted") {
		t.Errorf("Title = %q, want an acceptance title", e.Title)
	}
	if !strings.Contains(e.Message, "Night Shift Nurse") {
		t.Errorf("Message = %q, want it to name the gig", e.Message)
	}
	if e.Severity() != SeveritySuccess {
		t.Errorf("Severity() = %v, want %v", e.Severity(), SeveritySuccess)
	}

	alert := c.ActiveAlert()
	if !alert.Visible {
		t.Error("no visible alert after status change")
	}
	if alert.Severity != SeveritySuccess {
		t.Errorf("alert.Severity = %v, want %v", alert.Severity, SeveritySuccess)
	}
}

func TestNotifyApplicationStatusChangedOther(t *testing.T) {
	c := NewCenter(0)

	e := c.NotifyApplicationStatusChanged("rejected", "Night Shift Nurse")

	if e.Title != "Application Update" {
		t.Errorf("Title = %q, want %q", e.Title, "Application Update")
	}
	if e.Message != "Your application for Night Shift Nurse has been updated." {
		t.Errorf("Message = %q", e.Message)
	}
	if e.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", e.Severity(), SeverityWarning)
	}
}

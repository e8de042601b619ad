package cal_test

import (
	"testing"
	"time"

	"calcore/cal"
)

type countingObserver struct {
	updates  int
	updateds int
	lastUID  string
}

func (o *countingObserver) IncidenceUpdate(uid string, recurrenceID time.Time) {
	o.updates++
	o.lastUID = uid
}

func (o *countingObserver) IncidenceUpdated(uid string, recurrenceID time.Time) {
	o.updateds++
	o.lastUID = uid
}

func TestObserverNotifications(t *testing.T) {
	e := cal.NewEvent()
	obs := &countingObserver{}
	e.RegisterObserver(obs)

	e.SetDtStart(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
	if obs.updates != 1 || obs.updateds != 1 {
		t.Error("expected one notification pair, got", obs.updates, obs.updateds)
	}
	if obs.lastUID != e.GetUID() {
		t.Error("notification carried wrong uid", obs.lastUID)
	}
}

func TestObserverUpdateGrouping(t *testing.T) {
	e := cal.NewEvent()
	obs := &countingObserver{}
	e.RegisterObserver(obs)

	// three nested groups, many mutations, exactly one pair
	e.StartUpdates()
	e.StartUpdates()
	e.StartUpdates()
	e.SetDtStart(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
	e.SetOrganizer(cal.NewPerson("fred", "fred@flintstone.com"))
	e.SetURL("https://flintstone.com/bowling")
	e.AddComment("yabba dabba doo")
	e.EndUpdates()
	e.EndUpdates()
	e.EndUpdates()

	if obs.updates != 1 {
		t.Error("expected exactly one about-to-change, got", obs.updates)
	}
	if obs.updateds != 1 {
		t.Error("expected exactly one changed, got", obs.updateds)
	}
}

func TestObserverRegistrationIdempotent(t *testing.T) {
	e := cal.NewEvent()
	obs := &countingObserver{}
	e.RegisterObserver(obs)
	e.RegisterObserver(obs) // must not duplicate

	e.SetAllDay(true)
	if obs.updates != 1 || obs.updateds != 1 {
		t.Error("double registration caused duplicate notifications")
	}

	other := &countingObserver{}
	e.UnregisterObserver(other) // not registered, must be a no-op
	e.UnregisterObserver(obs)
	e.SetAllDay(false)
	if obs.updates != 1 || obs.updateds != 1 {
		t.Error("unregistered observer still notified")
	}
}

func TestDirtyFields(t *testing.T) {
	e := cal.NewEvent()
	e.ResetDirtyFields()

	e.SetDtStart(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
	e.SetOrganizer(cal.NewPerson("fred", "fred@flintstone.com"))
	if !e.IsFieldDirty(cal.FieldDtStart) {
		t.Error("FieldDtStart should be dirty")
	}
	if !e.IsFieldDirty(cal.FieldOrganizer) {
		t.Error("FieldOrganizer should be dirty")
	}
	if e.IsFieldDirty(cal.FieldAttendees) {
		t.Error("FieldAttendees should not be dirty")
	}

	e.ResetDirtyFields()
	if len(e.DirtyFields()) != 0 {
		t.Error("dirty fields not reset", e.DirtyFields())
	}
}

func TestAssignMarksFieldUnknown(t *testing.T) {
	a := cal.NewEvent()
	b := cal.NewEvent()
	b.SetDtStart(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
	a.ResetDirtyFields()

	if err := a.Assign(b); err != nil {
		t.Error(err)
	}
	if !a.IsFieldDirty(cal.FieldUnknown) {
		t.Error("assignment must mark FieldUnknown dirty")
	}
	if !a.Equals(b) {
		t.Error("assignment must copy all state")
	}

	// self-assignment is safe and still marks FieldUnknown
	a.ResetDirtyFields()
	if err := a.Assign(a); err != nil {
		t.Error(err)
	}
	if !a.IsFieldDirty(cal.FieldUnknown) {
		t.Error("self-assignment must mark FieldUnknown dirty")
	}

	// assigning across types is refused
	if err := a.Assign(cal.NewTodo()); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestAttendeeLookups(t *testing.T) {
	e := cal.NewEvent()
	fred := cal.NewAttendee("fred", "fred@flintstone.com")
	fred.SetUID("fred-uid")
	barney := cal.NewAttendee("barney", "barney@rubble.com")
	e.AddAttendee(fred, true)
	e.AddAttendee(barney, false)

	if got, ok := e.AttendeeByMail("barney@rubble.com"); !ok || got.GetName() != "barney" {
		t.Error("AttendeeByMail failed")
	}
	if _, ok := e.AttendeeByMail("wilma@flintstone.com"); ok {
		t.Error("AttendeeByMail matched a stranger")
	}
	if got, ok := e.AttendeeByMails([]string{"nobody@x.co"}, "fred@flintstone.com"); !ok || got.GetName() != "fred" {
		t.Error("AttendeeByMails fallback email failed")
	}
	if got, ok := e.AttendeeByUID("fred-uid"); !ok || got.GetName() != "fred" {
		t.Error("AttendeeByUID failed")
	}
}

func TestAddAttendeeDoUpdateFalse(t *testing.T) {
	e := cal.NewEvent()
	obs := &countingObserver{}
	e.RegisterObserver(obs)

	e.AddAttendee(cal.NewAttendee("fred", "fred@flintstone.com"), false)
	if obs.updates != 0 || obs.updateds != 0 {
		t.Error("bulk-load add must not notify")
	}
	if !e.IsFieldDirty(cal.FieldAttendees) {
		t.Error("bulk-load add must still mark FieldAttendees dirty")
	}

	e.SetAttendees([]cal.Attendee{
		cal.NewAttendee("wilma", "wilma@flintstone.com"),
		cal.NewAttendee("betty", "betty@rubble.com"),
		{}, // null attendees are dropped
	}, true)
	if obs.updates != 1 || obs.updateds != 1 {
		t.Error("SetAttendees must notify exactly once")
	}
	if len(e.GetAttendees()) != 2 {
		t.Error("unexpected attendee count", len(e.GetAttendees()))
	}
}

func TestReadOnlyBlocksMutation(t *testing.T) {
	e := cal.NewEvent()
	start := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	e.SetDtStart(start)
	e.SetReadOnly(true)
	e.SetDtStart(start.Add(time.Hour))
	if !e.GetDtStart().Equal(start) {
		t.Error("read-only incidence was mutated")
	}
}

func TestURI(t *testing.T) {
	e := cal.NewEvent()
	e.SetUID("some-uid")
	if e.URI() != "urn:x-ical:some-uid" {
		t.Error("unexpected uri", e.URI())
	}
}

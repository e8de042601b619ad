package cal_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"calcore/cal"
)

func TestIncidenceBinaryRoundTrip(t *testing.T) {
	// case: event with the full base state populated
	func() {
		e := cal.NewEvent()
		e.SetDtStart(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
		e.SetDtEnd(time.Date(2024, 10, 1, 10, 30, 0, 0, time.UTC))
		e.SetOrganizer(cal.NewPerson("fred", "fred@flintstone.com"))
		e.SetURL("https://flintstone.com/bowling")
		e.AddComment("bring shoes")
		e.AddContact("barney@rubble.com")
		wilma := cal.NewAttendee("wilma", "wilma@flintstone.com")
		wilma.SetRole(cal.AttendeeRoleChair)
		wilma.SetCUTypeStr("X-SPECIAL")
		e.AddAttendee(wilma, true)
		if err := e.SetCustomProperty("X-CATERING", "yes"); err != nil {
			t.Error(err)
		}

		data, err := cal.MarshalIncidence(e)
		if err != nil {
			t.Error(err)
		}
		got, err := cal.UnmarshalIncidence(data)
		if err != nil {
			t.Error(err)
		}
		if got.GetType() != cal.TypeEvent {
			t.Error("unexpected type", got.GetType())
		}
		if !got.Equals(e) {
			t.Error("round trip changed the event")
		}
	}()

	// case: todo
	func() {
		todo := cal.NewTodo()
		todo.SetDtDue(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
		todo.SetPercentComplete(40)
		data, err := cal.MarshalIncidence(todo)
		if err != nil {
			t.Error(err)
		}
		got, err := cal.UnmarshalIncidence(data)
		if err != nil {
			t.Error(err)
		}
		if !got.Equals(todo) {
			t.Error("round trip changed the todo")
		}
	}()

	// case: free-busy with periods
	func() {
		fb := cal.NewFreeBusy()
		fb.SetDtStart(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))
		fb.SetDtEnd(time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC))
		fb.AddPeriod(
			time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 10, 1, 11, 0, 0, 0, time.UTC),
		)
		data, err := cal.MarshalIncidence(fb)
		if err != nil {
			t.Error(err)
		}
		got, err := cal.UnmarshalIncidence(data)
		if err != nil {
			t.Error(err)
		}
		if !got.Equals(fb) {
			t.Error("round trip changed the free-busy")
		}
	}()
}

func TestIncidenceMagicCheck(t *testing.T) {
	e := cal.NewEvent()
	data, err := cal.MarshalIncidence(e)
	if err != nil {
		t.Error(err)
	}

	// corrupt the magic identifier
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, uint32(0xDEADBEEF)); err != nil {
		t.Error(err)
	}
	buf.Write(data[4:])

	if _, err := cal.UnmarshalIncidence(buf.Bytes()); !errors.Is(err, cal.ErrInvalidStream) {
		t.Error("expected ErrInvalidStream, got", err)
	}
}

type typeNameVisitor struct {
	visited string
}

func (v *typeNameVisitor) VisitEvent(e *cal.Event) error {
	v.visited = "event"
	return nil
}

func (v *typeNameVisitor) VisitTodo(todo *cal.Todo) error {
	v.visited = "todo"
	return nil
}

func (v *typeNameVisitor) VisitJournal(j *cal.Journal) error {
	v.visited = "journal"
	return nil
}

func (v *typeNameVisitor) VisitFreeBusy(fb *cal.FreeBusy) error {
	v.visited = "freebusy"
	return nil
}

func TestVisitor(t *testing.T) {
	for _, tc := range []struct {
		inc  cal.Incidence
		want string
	}{
		{cal.NewEvent(), "event"},
		{cal.NewTodo(), "todo"},
		{cal.NewJournal(), "journal"},
		{cal.NewFreeBusy(), "freebusy"},
	} {
		v := &typeNameVisitor{}
		if err := tc.inc.Accept(v); err != nil {
			t.Error(err)
		}
		if v.visited != tc.want {
			t.Errorf("visited %q, want %q", v.visited, tc.want)
		}
	}
}

func TestEventDurationEnd(t *testing.T) {
	e := cal.NewEvent()
	start := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	e.SetDtStart(start)
	e.SetDuration(cal.NewDuration(3600))
	if got := e.DateTime(cal.DateTimeRoleEnd); !got.Equal(start.Add(time.Hour)) {
		t.Error("duration-derived end wrong", got)
	}
}

package cal

import (
	"time"

	"github.com/google/uuid"
)

// A to-do: the shared incidence state plus a due date, a completion
// stamp and a percent-complete gauge.
type Todo struct {
	IncidenceBase
	dtDue           time.Time
	completed       time.Time
	percentComplete int32
}

func NewTodo() *Todo {
	t := &Todo{}
	t.uid = uuid.NewString()
	t.lastModified = time.Now().UTC()
	return t
}

func (t *Todo) Base() *IncidenceBase {
	return &t.IncidenceBase
}

func (t *Todo) GetType() IncidenceType {
	return TypeTodo
}

func (t *Todo) MimeType() string {
	return "application/x-vnd.calcore.todo"
}

// #region Getters

func (t *Todo) GetDtDue() time.Time {
	return t.dtDue
}

func (t *Todo) GetCompleted() time.Time {
	return t.completed
}

func (t *Todo) GetPercentComplete() int32 {
	return t.percentComplete
}

func (t *Todo) IsCompleted() bool {
	return !t.completed.IsZero()
}

// #endregion

// #region Setters

func (t *Todo) SetDtDue(dtDue time.Time) {
	if t.readOnly {
		return
	}
	t.update()
	t.dtDue = dtDue
	t.markFieldDirty(FieldDtDue)
	t.updated()
}

// Marking a to-do complete also pins percent-complete to 100.
func (t *Todo) SetCompleted(completed time.Time) {
	if t.readOnly {
		return
	}
	t.update()
	t.completed = completed
	if !completed.IsZero() {
		t.percentComplete = 100
	}
	t.markFieldDirty(FieldCompleted)
	t.updated()
}

func (t *Todo) SetPercentComplete(percent int32) {
	if t.readOnly {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	t.update()
	t.percentComplete = percent
	t.markFieldDirty(FieldPercentComplete)
	t.updated()
}

// #endregion

func (t *Todo) DateTime(role DateTimeRole) time.Time {
	switch role {
	case DateTimeRoleStart, DateTimeRoleRecurrenceStart:
		return t.dtStart
	case DateTimeRoleEnd, DateTimeRoleSort, DateTimeRoleDisplay:
		return t.dtDue
	default:
		return time.Time{}
	}
}

func (t *Todo) SetDateTime(dt time.Time, role DateTimeRole) {
	switch role {
	case DateTimeRoleStart:
		t.SetDtStart(dt)
	case DateTimeRoleEnd:
		t.SetDtDue(dt)
	}
}

func (t *Todo) Accept(v Visitor) error {
	return v.VisitTodo(t)
}

func (t *Todo) Equals(other Incidence) bool {
	o, ok := other.(*Todo)
	if !ok {
		return false
	}
	return t.equalsBase(&o.IncidenceBase) &&
		t.dtDue.Equal(o.dtDue) &&
		t.completed.Equal(o.completed) &&
		t.percentComplete == o.percentComplete
}

func (t *Todo) Assign(other Incidence) error {
	o, ok := other.(*Todo)
	if !ok {
		return assignTypeMismatch(t, other)
	}
	t.assignBase(&o.IncidenceBase)
	if t != o {
		t.dtDue = o.dtDue
		t.completed = o.completed
		t.percentComplete = o.percentComplete
	}
	return nil
}

func (t *Todo) serializeExt(sw *streamWriter) {
	sw.writeTime(t.dtDue)
	sw.writeTime(t.completed)
	sw.writeInt32(t.percentComplete)
}

func (t *Todo) deserializeExt(sr *streamReader) {
	t.dtDue = sr.readTime()
	t.completed = sr.readTime()
	t.percentComplete = sr.readInt32()
}

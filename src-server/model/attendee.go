package model

import (
	"fmt"

	"calcore/cal"

	"github.com/uptrace/bun"
)

// One attendee row. Data is the attendee's serialized stream.
type Attendee struct {
	bun.BaseModel `bun:"table:attendees"`

	IncidenceUID string `bun:"incidence_uid,notnull"` // required
	Data         []byte `bun:"data,notnull"`          // required

	Incidence *Incidence `bun:"rel:belongs-to,join:incidence_uid=uid"`
}

func (m *Attendee) FromAttendee(a *cal.Attendee, incidenceUID string) error {
	if incidenceUID == "" {
		return fmt.Errorf("Attendee.FromAttendee: incidence uid is blank")
	}
	data, err := a.MarshalBinary()
	if err != nil {
		return fmt.Errorf("Attendee.FromAttendee: %w", err)
	}
	m.IncidenceUID = incidenceUID
	m.Data = data
	return nil
}

func (m *Attendee) ToAttendee() (cal.Attendee, error) {
	var a cal.Attendee
	if err := a.UnmarshalBinary(m.Data); err != nil {
		return cal.Attendee{}, fmt.Errorf("Attendee.ToAttendee: %w", err)
	}
	return a, nil
}

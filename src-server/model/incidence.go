package model

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"calcore/cal"

	"github.com/uptrace/bun"
	"github.com/xyedo/rrule"
)

type IncidenceUIDCtxKeyType string

const IncidenceUIDCtxKey IncidenceUIDCtxKeyType = "incidence-uids"

// One stored incidence. The source of truth is the serialized stream in
// Data; the other columns are denormalized out of it for querying.
type Incidence struct {
	bun.BaseModel `bun:"table:incidences"`

	UID          string `bun:"uid,pk,notnull"`
	Type         string `bun:"type,notnull"`
	Organizer    string `bun:"organizer"`
	DtStart      int64  `bun:"dt_start"`
	AllDay       bool   `bun:"all_day"`
	URL          string `bun:"url"`
	RRule        string `bun:"rrule"`
	LastModified int64  `bun:"last_modified"`
	Data         []byte `bun:"data,notnull"`

	Attendees []*Attendee `bun:"rel:has-many,join:uid=incidence_uid"`
}

var _ bun.AfterDeleteHook = (*Incidence)(nil)

// Cleanup attendees and outbox rows
func (m *Incidence) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	if query.DB() == nil {
		return fmt.Errorf("Incidence.AfterDelete: db is nil")
	}

	switch incidenceUID := ctx.Value(IncidenceUIDCtxKey).(type) {
	case string:
		if incidenceUID == "" {
			return fmt.Errorf("Incidence.AfterDelete: deleted incidence uid is blank")
		}

		// rm related attendees
		if _, err := query.DB().NewDelete().
			Model((*Attendee)(nil)).
			Where("incidence_uid = ?", incidenceUID).
			Exec(ctx); err != nil {
			return fmt.Errorf("Incidence.AfterDelete: can't delete attendees: %w", err)
		}

		// rm related outbox rows
		if _, err := query.DB().NewDelete().
			Model((*Outbox)(nil)).
			Where("incidence_uid = ?", incidenceUID).
			Exec(ctx); err != nil {
			return fmt.Errorf("Incidence.AfterDelete: can't delete outbox rows: %w", err)
		}
	case []string:
		if len(incidenceUID) == 0 {
			return fmt.Errorf("Incidence.AfterDelete: deleted incidence uids is empty")
		}

		// rm related attendees
		if _, err := query.DB().NewDelete().
			Model((*Attendee)(nil)).
			Where("incidence_uid IN (?)", bun.In(incidenceUID)).
			Exec(ctx); err != nil {
			return fmt.Errorf("Incidence.AfterDelete: can't delete attendees: %w", err)
		}

		// rm related outbox rows
		if _, err := query.DB().NewDelete().
			Model((*Outbox)(nil)).
			Where("incidence_uid IN (?)", bun.In(incidenceUID)).
			Exec(ctx); err != nil {
			return fmt.Errorf("Incidence.AfterDelete: can't delete outbox rows: %w", err)
		}
	case nil:
		return fmt.Errorf("Incidence.AfterDelete: incidence uid is nil")
	default:
		return fmt.Errorf("Incidence.AfterDelete: wrong incidence uid type | type=%T", incidenceUID)
	}

	return nil
}

// Fill the model from a cal incidence: serialize the stream into Data
// and denormalize the queryable columns.
func (m *Incidence) FromIncidence(inc cal.Incidence) error {
	data, err := cal.MarshalIncidence(inc)
	if err != nil {
		return fmt.Errorf("Incidence.FromIncidence: can't serialize: %w", err)
	}

	base := inc.Base()
	m.UID = base.GetUID()
	m.Type = inc.GetType().String()
	organizer := base.GetOrganizer()
	m.Organizer = organizer.FullName()
	if !base.GetDtStart().IsZero() {
		m.DtStart = base.GetDtStart().Unix()
	}
	m.AllDay = base.IsAllDay()
	m.URL = base.GetURL()
	if !base.GetLastModified().IsZero() {
		m.LastModified = base.GetLastModified().Unix()
	}
	m.Data = data

	return nil
}

// Decode the stored stream back into a cal incidence.
func (m *Incidence) ToIncidence() (cal.Incidence, error) {
	inc, err := cal.UnmarshalIncidence(m.Data)
	if err != nil {
		return nil, fmt.Errorf("Incidence.ToIncidence: %w", err)
	}
	return inc, nil
}

// Upsert the incidence and replace its attendee rows with the ones in
// the serialized stream.
func (m *Incidence) Upsert(ctx context.Context, db bun.IDB) error {
	// validate
	switch {
	case m.UID == "":
		return fmt.Errorf("Incidence.Upsert: uid is required")
	case m.Type == "":
		return fmt.Errorf("Incidence.Upsert: type is required")
	case len(m.Data) == 0:
		return fmt.Errorf("Incidence.Upsert: data is required")
	}
	if m.URL != "" {
		if _, err := url.ParseRequestURI(m.URL); err != nil {
			return fmt.Errorf("Incidence.Upsert: url is invalid: %w", err)
		}
	}
	if m.RRule != "" {
		if _, err := rrule.StrToRRuleSet(m.RRule); err != nil {
			return fmt.Errorf("Incidence.Upsert: invalid rrule: %w", err)
		}
	}

	// the stream must decode before anything hits the database
	inc, err := m.ToIncidence()
	if err != nil {
		return fmt.Errorf("Incidence.Upsert: %w", err)
	}

	// upsert to db
	if _, err := db.NewInsert().
		Model(m).
		On("CONFLICT (uid) DO UPDATE").
		Set("type = EXCLUDED.type").
		Set("organizer = EXCLUDED.organizer").
		Set("dt_start = EXCLUDED.dt_start").
		Set("all_day = EXCLUDED.all_day").
		Set("url = EXCLUDED.url").
		Set("rrule = EXCLUDED.rrule").
		Set("last_modified = EXCLUDED.last_modified").
		Set("data = EXCLUDED.data").
		Exec(ctx); err != nil {
		return fmt.Errorf("Incidence.Upsert: %w", err)
	}

	// replace attendee rows
	if _, err := db.NewDelete().
		Model((*Attendee)(nil)).
		Where("incidence_uid = ?", m.UID).
		Exec(ctx); err != nil {
		return fmt.Errorf("Incidence.Upsert: can't delete stale attendees: %w", err)
	}
	for _, a := range inc.Base().GetAttendees() {
		attendeeModel := new(Attendee)
		if err := attendeeModel.FromAttendee(&a, m.UID); err != nil {
			slog.Warn("Incidence.Upsert: can't serialize attendee", "error", err)
			continue
		}
		if _, err := db.NewInsert().
			Model(attendeeModel).
			Exec(ctx); err != nil {
			return fmt.Errorf("Incidence.Upsert: can't insert attendee: %w", err)
		}
	}

	return nil
}

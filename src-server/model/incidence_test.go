package model_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"calcore/cal"
	"calcore/src-server/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestIncidence(t *testing.T) {
	// init db
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Error(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Error(err)
	}

	// create a cal event with attendees
	event := cal.NewEvent()
	event.SetDtStart(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
	event.SetDtEnd(time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC))
	event.SetOrganizer(cal.NewPerson("fred", "fred@flintstone.com"))
	wilma := cal.NewAttendee("wilma", "wilma@flintstone.com")
	wilma.SetUID("wilma-uid")
	wilma.SetCUTypeStr("X-SPECIAL")
	event.AddAttendee(wilma, false)
	event.AddAttendee(cal.NewAttendee("barney", "barney@rubble.com"), false)

	incidenceModel := new(model.Incidence)
	if err := incidenceModel.FromIncidence(event); err != nil {
		t.Error(err)
	}
	if err := incidenceModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	// case: stored stream decodes back to an equal event
	func() {
		loadedModel := new(model.Incidence)
		if err := bundb.NewSelect().
			Model(loadedModel).
			Where("uid = ?", event.GetUID()).
			Relation("Attendees").
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		loaded, err := loadedModel.ToIncidence()
		if err != nil {
			t.Error(err)
		}
		if !loaded.Equals(event) {
			t.Error("stored incidence differs after reload")
		}
		if len(loadedModel.Attendees) != 2 {
			t.Error("expected 2 attendee rows, got", len(loadedModel.Attendees))
		}
		attendee, err := loadedModel.Attendees[0].ToAttendee()
		if err != nil {
			t.Error(err)
		}
		if attendee.GetCUTypeStr() != "X-SPECIAL" {
			t.Error("attendee row lost the extension token", attendee.GetCUTypeStr())
		}
	}()

	// case: upsert replaces attendee rows instead of stacking them
	func() {
		if err := incidenceModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.Attendee)(nil)).
			Where("incidence_uid = ?", event.GetUID()).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 2 {
			t.Error("attendee rows should be replaced, got", count)
		}
	}()

	// case: outbox rows reference the incidence
	func() {
		msg := cal.NewScheduleMessage(event, cal.ITIPPublish, cal.ScheduleMessagePublishNew)
		outboxModel := new(model.Outbox)
		if err := outboxModel.FromScheduleMessage(msg); err != nil {
			t.Error(err)
		}
		if err := outboxModel.Insert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		if outboxModel.MethodName() != "Publish" {
			t.Error("unexpected method name", outboxModel.MethodName())
		}
	}()

	// case: delete incidence and attendee + outbox rows are gone
	func() {
		if _, err := bundb.NewDelete().
			Model((*model.Incidence)(nil)).
			Where("uid = ?", event.GetUID()).
			Exec(context.WithValue(context.Background(), model.IncidenceUIDCtxKey, event.GetUID())); err != nil {
			t.Error(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.Attendee)(nil)).
			Where("incidence_uid = ?", event.GetUID()).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 0 {
			t.Error("attendee rows should not exist", count)
		}
		count, err = bundb.NewSelect().
			Model((*model.Outbox)(nil)).
			Where("incidence_uid = ?", event.GetUID()).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 0 {
			t.Error("outbox rows should not exist", count)
		}
	}()
}

func TestIncidenceUpsertValidation(t *testing.T) {
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Error(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Error(err)
	}

	event := cal.NewEvent()
	incidenceModel := new(model.Incidence)
	if err := incidenceModel.FromIncidence(event); err != nil {
		t.Error(err)
	}

	// case: bad rrule is rejected before touching the database
	func() {
		incidenceModel.RRule = "not an rrule"
		if err := incidenceModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected invalid rrule error")
		}
		incidenceModel.RRule = ""
	}()

	// case: blank uid is rejected
	func() {
		uid := incidenceModel.UID
		incidenceModel.UID = ""
		if err := incidenceModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected uid required error")
		}
		incidenceModel.UID = uid
	}()

	// case: valid rrule passes
	func() {
		incidenceModel.RRule = "DTSTART:20241001T090000Z\nRRULE:FREQ=WEEKLY;COUNT=3"
		if err := incidenceModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
	}()
}

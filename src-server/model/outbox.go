package model

import (
	"context"
	"fmt"
	"time"

	"calcore/cal"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// One queued iTIP message waiting to be delivered by a transport this
// service does not provide itself.
type Outbox struct {
	bun.BaseModel `bun:"table:outbox"`

	ID           string `bun:"id,pk,notnull"`
	IncidenceUID string `bun:"incidence_uid,notnull"`
	Method       int32  `bun:"method,notnull"`
	Status       int32  `bun:"status,notnull"`
	Error        string `bun:"error"`
	CreatedAt    int64  `bun:"created_at,notnull"`
}

func (m *Outbox) FromScheduleMessage(msg *cal.ScheduleMessage) error {
	inc := msg.GetIncidence()
	if inc == nil {
		return fmt.Errorf("Outbox.FromScheduleMessage: message carries no incidence")
	}
	m.ID = uuid.NewString()
	m.IncidenceUID = inc.Base().GetUID()
	m.Method = int32(msg.GetMethod())
	m.Status = int32(msg.GetStatus())
	m.Error = msg.GetError()
	m.CreatedAt = time.Now().Unix()
	return nil
}

// The machine-readable name of the stored method.
func (m *Outbox) MethodName() string {
	return cal.MethodName(cal.ITIPMethod(m.Method))
}

func (m *Outbox) Insert(ctx context.Context, db bun.IDB) error {
	switch {
	case m.ID == "":
		return fmt.Errorf("Outbox.Insert: id is required")
	case m.IncidenceUID == "":
		return fmt.Errorf("Outbox.Insert: incidence uid is required")
	case m.CreatedAt == 0:
		return fmt.Errorf("Outbox.Insert: created at is required")
	}

	// check if incidence exists
	incidenceExist, err := db.NewSelect().
		Model(&Incidence{}).
		Where("uid = ?", m.IncidenceUID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("Outbox.Insert: %w", err)
	}
	if !incidenceExist {
		return fmt.Errorf("Outbox.Insert: incidence uid not found")
	}

	if _, err := db.NewInsert().
		Model(m).
		Exec(ctx); err != nil {
		return fmt.Errorf("Outbox.Insert: %w", err)
	}
	return nil
}

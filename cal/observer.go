package cal

import "time"

// Observer receives synchronous change notifications from an incidence.
// IncidenceUpdate fires before a mutation is applied, IncidenceUpdated
// after; both carry the incidence uid and its recurrence id so shared
// observers can tell instances apart. Callbacks must not mutate the
// incidence they observe in a way that retriggers themselves.
type Observer interface {
	IncidenceUpdate(uid string, recurrenceID time.Time)
	IncidenceUpdated(uid string, recurrenceID time.Time)
}

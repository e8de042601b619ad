package route

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"calcore/cal"
	"calcore/src-server/model"
	"calcore/src-server/utils"
)

// Relays incidence change notifications into the notification counter.
type notificationRelay struct {
	as *utils.AppState
}

func (n *notificationRelay) IncidenceUpdate(uid string, recurrenceID time.Time) {}

func (n *notificationRelay) IncidenceUpdated(uid string, recurrenceID time.Time) {
	n.as.MetricChans.IncidenceNotification <- 1
}

func Incidence(muxer *http.ServeMux, as *utils.AppState) {
	type CreateIncidenceReqBody struct {
		Organizer        string   `json:"organizer"`
		StartDateUnixUTC int64    `json:"startDateUnixUTC"`
		EndDateUnixUTC   int64    `json:"endDateUnixUTC"`
		IsWholeDay       bool     `json:"isWholeDay"`
		Url              string   `json:"url"`
		Attendees        []string `json:"attendees"`
	}

	// get one incidence as its serialized stream
	muxer.HandleFunc("GET /incidence/{uid}", func(w http.ResponseWriter, r *http.Request) {
		uid := r.PathValue("uid")
		if uid == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an incidence ID"))
			return
		}

		startTimer := time.Now()
		incidenceModel := new(model.Incidence)
		if err := as.BunDB.
			NewSelect().
			Model(incidenceModel).
			Where("uid = ?", uid).
			Scan(r.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Incidence not found"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get incidence"))
			slog.Error("can't get incidence", "uid", uid, "error", err)
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		w.Write(incidenceModel.Data)
	})

	// get the full names of one incidence's attendees
	muxer.HandleFunc("GET /incidence/{uid}/attendees", func(w http.ResponseWriter, r *http.Request) {
		uid := r.PathValue("uid")
		if uid == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an incidence ID"))
			return
		}
		w.Header().Set("Content-Type", "application/json")

		// #region - get incidence & attendee rows
		startTimer := time.Now()
		incidenceModel := new(model.Incidence)
		if err := as.BunDB.
			NewSelect().
			Model(incidenceModel).
			Where("uid = ?", uid).
			Relation("Attendees").
			Scan(r.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Incidence not found"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get incidence"))
			slog.Error("can't get incidence", "uid", uid, "error", err)
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())
		// #endregion

		// #region - prepare response body
		respBody := make([]string, 0, len(incidenceModel.Attendees))
		for _, attendeeModel := range incidenceModel.Attendees {
			attendee, err := attendeeModel.ToAttendee()
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't decode attendee"))
				slog.Error("can't decode attendee", "uid", uid, "error", err)
				return
			}
			person := attendee.GetPerson()
			respBody = append(respBody, person.FullName())
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		// #endregion

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// create a new event, the success response is the event ID
	muxer.HandleFunc("POST /incidence", func(w http.ResponseWriter, r *http.Request) {
		var reqBody CreateIncidenceReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if reqBody.StartDateUnixUTC == 0 || reqBody.EndDateUnixUTC == 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a start date and end date"))
			return
		}
		if reqBody.EndDateUnixUTC < reqBody.StartDateUnixUTC {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("End date can't be before start date"))
			return
		}

		// #region - build the event
		event := cal.NewEvent()
		event.RegisterObserver(&notificationRelay{as: as})
		event.StartUpdates()
		event.SetDtStart(time.Unix(reqBody.StartDateUnixUTC, 0).UTC())
		event.SetDtEnd(time.Unix(reqBody.EndDateUnixUTC, 0).UTC())
		event.SetAllDay(reqBody.IsWholeDay)
		if reqBody.Url != "" {
			event.SetURL(reqBody.Url)
		}
		if reqBody.Organizer != "" {
			event.SetOrganizer(cal.PersonFromFullName(reqBody.Organizer))
		}
		for _, fullName := range reqBody.Attendees {
			person := cal.PersonFromFullName(fullName)
			event.AddAttendee(cal.NewAttendee(person.GetName(), person.GetEmail()), false)
		}
		event.EndUpdates()
		// #endregion

		// #region - insert into db
		incidenceModel := new(model.Incidence)
		if err := incidenceModel.FromIncidence(event); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't serialize event"))
			slog.Error("can't serialize event", "error", err)
			return
		}
		startTimer := time.Now()
		if err := incidenceModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't insert event"))
			slog.Error("can't insert event", "error", err)
			return
		}

		outboxModel := new(model.Outbox)
		msg := cal.NewScheduleMessage(event, cal.ITIPPublish, cal.ScheduleMessagePublishNew)
		if err := outboxModel.FromScheduleMessage(msg); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't prepare scheduling message"))
			slog.Error("can't prepare scheduling message", "error", err)
			return
		}
		if err := outboxModel.Insert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't insert scheduling message"))
			slog.Error("can't insert scheduling message", "error", err)
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())
		// #endregion

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(event.GetUID()))
	})

	// delete one incidence and its related rows
	muxer.HandleFunc("DELETE /incidence/{uid}", func(w http.ResponseWriter, r *http.Request) {
		uid := r.PathValue("uid")
		if uid == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an incidence ID"))
			return
		}

		startTimer := time.Now()
		ctx := context.WithValue(r.Context(), model.IncidenceUIDCtxKey, uid)
		if _, err := as.BunDB.
			NewDelete().
			Model((*model.Incidence)(nil)).
			Where("uid = ?", uid).
			Exec(ctx); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete incidence"))
			slog.Error("can't delete incidence", "uid", uid, "error", err)
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Incidence deleted"))
	})
}

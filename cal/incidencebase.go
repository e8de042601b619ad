package cal

import (
	"fmt"
	"time"
)

// IncidenceBase is the state shared by every calendar component: uid,
// organizer, attendees, timing, comments and contacts, plus the
// dirty-field set and the observer registry. Concrete types (Event,
// Todo, Journal, FreeBusy) embed it and add their own fields.
//
// Every mutator follows the same protocol: fire the pre-change
// notification, mutate, mark the matching Field dirty, fire the
// post-change notification. StartUpdates/EndUpdates batch any number of
// mutations into a single notification pair.
type IncidenceBase struct {
	uid          string
	lastModified time.Time
	organizer    Person
	dtStart      time.Time
	allDay       bool
	duration     Duration
	hasDuration  bool
	url          string
	recurrenceID time.Time
	comments     []string
	contacts     []string
	attendees    []Attendee
	custom       CustomProperties
	readOnly     bool

	dirtyFields      map[Field]struct{}
	observers        []Observer
	updateGroupLevel int
}

// The fixed constant leading every serialized incidence stream.
// Deserializers check it before interpreting anything else.
func MagicSerializationIdentifier() uint32 {
	return 0x0CA1C0DE
}

// #region Observers

// Register an observer. Registering the same observer twice is a no-op;
// it will not receive duplicate notifications.
func (b *IncidenceBase) RegisterObserver(observer Observer) {
	if observer == nil {
		return
	}
	for _, o := range b.observers {
		if o == observer {
			return
		}
	}
	b.observers = append(b.observers, observer)
}

// Unregister an observer. Unregistering one that is not currently
// registered is a no-op.
func (b *IncidenceBase) UnregisterObserver(observer Observer) {
	for i, o := range b.observers {
		if o == observer {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// Fire the pre-change notification; suppressed inside an update group.
func (b *IncidenceBase) update() {
	if b.updateGroupLevel > 0 {
		return
	}
	for _, o := range b.observers {
		o.IncidenceUpdate(b.uid, b.recurrenceID)
	}
}

// Fire the post-change notification; suppressed inside an update group.
func (b *IncidenceBase) updated() {
	if b.updateGroupLevel > 0 {
		return
	}
	for _, o := range b.observers {
		o.IncidenceUpdated(b.uid, b.recurrenceID)
	}
}

// Open an update group. The first call fires a single pre-change
// notification; nested calls compose, so N starts followed by N ends
// yield exactly one notification pair no matter how many mutations
// happened in between.
func (b *IncidenceBase) StartUpdates() {
	b.update()
	b.updateGroupLevel++
}

// Close an update group; the outermost close fires the single
// post-change notification.
func (b *IncidenceBase) EndUpdates() {
	if b.updateGroupLevel > 0 {
		b.updateGroupLevel--
		if b.updateGroupLevel == 0 {
			b.updated()
		}
	}
}

// #endregion

// #region Dirty fields

func (b *IncidenceBase) markFieldDirty(field Field) {
	if b.dirtyFields == nil {
		b.dirtyFields = make(map[Field]struct{})
	}
	b.dirtyFields[field] = struct{}{}
}

// Fields changed since the last reset, sorted.
func (b *IncidenceBase) DirtyFields() []Field {
	return sortedFields(b.dirtyFields)
}

func (b *IncidenceBase) IsFieldDirty(field Field) bool {
	_, ok := b.dirtyFields[field]
	return ok
}

// Replace the dirty set wholesale, e.g. after loading from storage.
func (b *IncidenceBase) SetDirtyFields(fields ...Field) {
	b.dirtyFields = make(map[Field]struct{}, len(fields))
	for _, f := range fields {
		b.dirtyFields[f] = struct{}{}
	}
}

func (b *IncidenceBase) ResetDirtyFields() {
	b.dirtyFields = nil
}

// #endregion

// #region Getters

func (b *IncidenceBase) GetUID() string {
	return b.uid
}

func (b *IncidenceBase) GetLastModified() time.Time {
	return b.lastModified
}

func (b *IncidenceBase) GetOrganizer() Person {
	return b.organizer
}

func (b *IncidenceBase) GetDtStart() time.Time {
	return b.dtStart
}

func (b *IncidenceBase) IsAllDay() bool {
	return b.allDay
}

func (b *IncidenceBase) GetDuration() Duration {
	return b.duration
}

func (b *IncidenceBase) HasDuration() bool {
	return b.hasDuration
}

func (b *IncidenceBase) GetURL() string {
	return b.url
}

func (b *IncidenceBase) GetRecurrenceID() time.Time {
	return b.recurrenceID
}

func (b *IncidenceBase) GetComments() []string {
	return b.comments
}

func (b *IncidenceBase) GetContacts() []string {
	return b.contacts
}

func (b *IncidenceBase) GetAttendees() []Attendee {
	return b.attendees
}

func (b *IncidenceBase) CustomProperties() *CustomProperties {
	return &b.custom
}

func (b *IncidenceBase) IsReadOnly() bool {
	return b.readOnly
}

// A deterministic URI for the incidence, derived from its uid.
func (b *IncidenceBase) URI() string {
	return "urn:x-ical:" + b.uid
}

// #endregion

// #region Setters

func (b *IncidenceBase) SetUID(uid string) {
	if b.readOnly {
		return
	}
	b.update()
	b.uid = uid
	b.markFieldDirty(FieldUID)
	b.updated()
}

// Marks FieldLastModified dirty but deliberately skips the observer
// notifications; last-modified stamps change as a side effect of other
// edits and notifying here would recurse.
func (b *IncidenceBase) SetLastModified(lastModified time.Time) {
	if b.readOnly {
		return
	}
	b.lastModified = lastModified.UTC()
	b.markFieldDirty(FieldLastModified)
}

func (b *IncidenceBase) SetOrganizer(organizer Person) {
	if b.readOnly {
		return
	}
	b.update()
	b.organizer = organizer
	b.markFieldDirty(FieldOrganizer)
	b.updated()
}

func (b *IncidenceBase) SetDtStart(dtStart time.Time) {
	if b.readOnly {
		return
	}
	b.update()
	b.dtStart = dtStart
	b.markFieldDirty(FieldDtStart)
	b.updated()
}

func (b *IncidenceBase) SetAllDay(allDay bool) {
	if b.readOnly || b.allDay == allDay {
		return
	}
	b.update()
	b.allDay = allDay
	b.markFieldDirty(FieldAllDay)
	b.updated()
}

// Setting a duration also flips hasDuration on.
func (b *IncidenceBase) SetDuration(duration Duration) {
	if b.readOnly {
		return
	}
	b.update()
	b.duration = duration
	b.hasDuration = true
	b.markFieldDirty(FieldDuration)
	b.updated()
}

func (b *IncidenceBase) SetHasDuration(hasDuration bool) {
	if b.readOnly {
		return
	}
	b.update()
	b.hasDuration = hasDuration
	b.markFieldDirty(FieldDuration)
	b.updated()
}

func (b *IncidenceBase) SetURL(url string) {
	if b.readOnly {
		return
	}
	b.update()
	b.url = url
	b.markFieldDirty(FieldURL)
	b.updated()
}

func (b *IncidenceBase) SetRecurrenceID(recurrenceID time.Time) {
	if b.readOnly {
		return
	}
	b.update()
	b.recurrenceID = recurrenceID
	b.markFieldDirty(FieldRecurrenceID)
	b.updated()
}

func (b *IncidenceBase) SetReadOnly(readOnly bool) {
	b.readOnly = readOnly
}

// #endregion

// #region Comments & contacts

func (b *IncidenceBase) AddComment(comment string) {
	if b.readOnly {
		return
	}
	b.update()
	b.comments = append(b.comments, comment)
	b.markFieldDirty(FieldComment)
	b.updated()
}

// Remove the first occurrence of comment; reports whether one was found.
func (b *IncidenceBase) RemoveComment(comment string) bool {
	if b.readOnly {
		return false
	}
	for i, c := range b.comments {
		if c == comment {
			b.update()
			b.comments = append(b.comments[:i], b.comments[i+1:]...)
			b.markFieldDirty(FieldComment)
			b.updated()
			return true
		}
	}
	return false
}

func (b *IncidenceBase) ClearComments() {
	if b.readOnly {
		return
	}
	b.update()
	b.comments = nil
	b.markFieldDirty(FieldComment)
	b.updated()
}

// Empty contacts are ignored.
func (b *IncidenceBase) AddContact(contact string) {
	if b.readOnly || contact == "" {
		return
	}
	b.update()
	b.contacts = append(b.contacts, contact)
	b.markFieldDirty(FieldContact)
	b.updated()
}

func (b *IncidenceBase) RemoveContact(contact string) bool {
	if b.readOnly {
		return false
	}
	for i, c := range b.contacts {
		if c == contact {
			b.update()
			b.contacts = append(b.contacts[:i], b.contacts[i+1:]...)
			b.markFieldDirty(FieldContact)
			b.updated()
			return true
		}
	}
	return false
}

func (b *IncidenceBase) ClearContacts() {
	if b.readOnly {
		return
	}
	b.update()
	b.contacts = nil
	b.markFieldDirty(FieldContact)
	b.updated()
}

// #endregion

// #region Attendees

// Append an attendee. Null attendees are ignored. Pass doUpdate=false
// on bulk-load paths to skip the notification pair; the field is marked
// dirty either way.
func (b *IncidenceBase) AddAttendee(attendee Attendee, doUpdate bool) {
	if b.readOnly || attendee.IsNull() {
		return
	}
	if doUpdate {
		b.update()
	}
	b.attendees = append(b.attendees, attendee)
	b.markFieldDirty(FieldAttendees)
	if doUpdate {
		b.updated()
	}
}

// Replace the whole attendee list as one grouped operation: a single
// notification pair regardless of list size.
func (b *IncidenceBase) SetAttendees(attendees []Attendee, doUpdate bool) {
	if b.readOnly {
		return
	}
	if doUpdate {
		b.update()
	}
	b.attendees = nil
	for _, a := range attendees {
		if !a.IsNull() {
			b.attendees = append(b.attendees, a)
		}
	}
	b.markFieldDirty(FieldAttendees)
	if doUpdate {
		b.updated()
	}
}

func (b *IncidenceBase) ClearAttendees() {
	if b.readOnly {
		return
	}
	b.update()
	b.attendees = nil
	b.markFieldDirty(FieldAttendees)
	b.updated()
}

// Linear scan for an exact match on the raw email field, not the
// full-name form.
func (b *IncidenceBase) AttendeeByMail(email string) (Attendee, bool) {
	for i := range b.attendees {
		if b.attendees[i].GetEmail() == email {
			return b.attendees[i], true
		}
	}
	return Attendee{}, false
}

// First attendee matching any of emails, falling back to the single
// extra email argument.
func (b *IncidenceBase) AttendeeByMails(emails []string, email string) (Attendee, bool) {
	candidates := emails
	if email != "" {
		candidates = append(append([]string{}, emails...), email)
	}
	for i := range b.attendees {
		for _, candidate := range candidates {
			if b.attendees[i].GetEmail() == candidate {
				return b.attendees[i], true
			}
		}
	}
	return Attendee{}, false
}

// Matches against the stored uid; attendees with an unrealized lazy uid
// never match.
func (b *IncidenceBase) AttendeeByUID(uid string) (Attendee, bool) {
	for i := range b.attendees {
		if b.attendees[i].uid == uid {
			return b.attendees[i], true
		}
	}
	return Attendee{}, false
}

// #endregion

// #region Custom properties

func (b *IncidenceBase) SetCustomProperty(name string, value string) error {
	if b.readOnly {
		return NewCustomError("incidence is read-only", map[string]any{"uid": b.uid})
	}
	b.update()
	if err := b.custom.SetProperty(name, value); err != nil {
		return err
	}
	b.markFieldDirty(FieldUnknown)
	b.updated()
	return nil
}

// #endregion

// Copy every base field from other. Observers, the update-group depth
// and the read-only flag stay with the receiver; FieldUnknown is always
// added to the dirty set on top of whatever the caller marks.
// Self-assignment is safe.
func (b *IncidenceBase) assignBase(other *IncidenceBase) {
	if b != other {
		b.uid = other.uid
		b.lastModified = other.lastModified
		b.organizer = other.organizer
		b.dtStart = other.dtStart
		b.allDay = other.allDay
		b.duration = other.duration
		b.hasDuration = other.hasDuration
		b.url = other.url
		b.recurrenceID = other.recurrenceID
		b.comments = append([]string(nil), other.comments...)
		b.contacts = append([]string(nil), other.contacts...)
		b.attendees = append([]Attendee(nil), other.attendees...)
		b.custom = other.custom.clone()
	}
	b.markFieldDirty(FieldUnknown)
}

// Field-by-field comparison of the shared state. The last-modified
// stamp is excluded: it tracks edit history, not content.
func (b *IncidenceBase) equalsBase(other *IncidenceBase) bool {
	if b.uid != other.uid ||
		!b.dtStart.Equal(other.dtStart) ||
		b.allDay != other.allDay ||
		!b.duration.Equal(other.duration) ||
		b.hasDuration != other.hasDuration ||
		b.url != other.url ||
		!b.recurrenceID.Equal(other.recurrenceID) ||
		!b.organizer.Equal(other.organizer) ||
		!b.custom.Equal(other.custom) {
		return false
	}
	if len(b.comments) != len(other.comments) ||
		len(b.contacts) != len(other.contacts) ||
		len(b.attendees) != len(other.attendees) {
		return false
	}
	for i := range b.comments {
		if b.comments[i] != other.comments[i] {
			return false
		}
	}
	for i := range b.contacts {
		if b.contacts[i] != other.contacts[i] {
			return false
		}
	}
	for i := range b.attendees {
		if !b.attendees[i].Equal(other.attendees[i]) {
			return false
		}
	}
	return true
}

func (b *IncidenceBase) serialize(sw *streamWriter) {
	sw.writeString(b.uid)
	sw.writeTime(b.lastModified)
	sw.writeTime(b.dtStart)
	sw.writeBool(b.allDay)
	b.organizer.serialize(sw)
	b.duration.serialize(sw)
	sw.writeBool(b.hasDuration)
	sw.writeString(b.url)
	sw.writeTime(b.recurrenceID)
	sw.writeUint32(uint32(len(b.comments)))
	for _, c := range b.comments {
		sw.writeString(c)
	}
	sw.writeUint32(uint32(len(b.contacts)))
	for _, c := range b.contacts {
		sw.writeString(c)
	}
	sw.writeUint32(uint32(len(b.attendees)))
	for i := range b.attendees {
		b.attendees[i].serialize(sw)
	}
	b.custom.serialize(sw)
}

func (b *IncidenceBase) deserialize(sr *streamReader) {
	b.uid = sr.readString()
	b.lastModified = sr.readTime()
	b.dtStart = sr.readTime()
	b.allDay = sr.readBool()
	b.organizer.deserialize(sr)
	b.duration.deserialize(sr)
	b.hasDuration = sr.readBool()
	b.url = sr.readString()
	b.recurrenceID = sr.readTime()
	b.comments = readStringList(sr)
	b.contacts = readStringList(sr)
	count := sr.readUint32()
	if sr.Err() != nil {
		return
	}
	if count > maxStreamBlobLen {
		sr.err = fmt.Errorf("IncidenceBase: attendee count %d out of range", count)
		return
	}
	b.attendees = nil
	for i := uint32(0); i < count; i++ {
		var a Attendee
		a.deserialize(sr)
		if sr.Err() != nil {
			return
		}
		b.attendees = append(b.attendees, a)
	}
	b.custom.deserialize(sr)
}

func readStringList(sr *streamReader) []string {
	count := sr.readUint32()
	if sr.Err() != nil {
		return nil
	}
	if count > maxStreamBlobLen {
		sr.err = fmt.Errorf("streamReader: list length %d out of range", count)
		return nil
	}
	var out []string
	for i := uint32(0); i < count; i++ {
		s := sr.readString()
		if sr.Err() != nil {
			return nil
		}
		out = append(out, s)
	}
	return out
}

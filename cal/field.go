package cal

import "sort"

// Field names one semantically distinct incidence attribute for
// dirty-field tracking. FieldUnknown is the catch-all used when a
// change cannot be pinned to a single attribute, notably whole-object
// assignment.
type Field int32

const (
	FieldUnknown Field = iota
	FieldUID
	FieldDtStart
	FieldDtEnd
	FieldDtDue
	FieldDuration
	FieldAllDay
	FieldLastModified
	FieldCreated
	FieldDescription
	FieldSummary
	FieldLocation
	FieldCategories
	FieldRelatedTo
	FieldRecurrence
	FieldRecurrenceID
	FieldAlarms
	FieldSchedulingID
	FieldAttachment
	FieldSecrecy
	FieldStatus
	FieldTransparency
	FieldResources
	FieldPriority
	FieldGeoLatitude
	FieldGeoLongitude
	FieldComment
	FieldContact
	FieldAttendees
	FieldOrganizer
	FieldRevision
	FieldURL
	FieldCompleted
	FieldPercentComplete
)

var fieldNames = map[Field]string{
	FieldUnknown:         "Unknown",
	FieldUID:             "UID",
	FieldDtStart:         "DtStart",
	FieldDtEnd:           "DtEnd",
	FieldDtDue:           "DtDue",
	FieldDuration:        "Duration",
	FieldAllDay:          "AllDay",
	FieldLastModified:    "LastModified",
	FieldCreated:         "Created",
	FieldDescription:     "Description",
	FieldSummary:         "Summary",
	FieldLocation:        "Location",
	FieldCategories:      "Categories",
	FieldRelatedTo:       "RelatedTo",
	FieldRecurrence:      "Recurrence",
	FieldRecurrenceID:    "RecurrenceID",
	FieldAlarms:          "Alarms",
	FieldSchedulingID:    "SchedulingID",
	FieldAttachment:      "Attachment",
	FieldSecrecy:         "Secrecy",
	FieldStatus:          "Status",
	FieldTransparency:    "Transparency",
	FieldResources:       "Resources",
	FieldPriority:        "Priority",
	FieldGeoLatitude:     "GeoLatitude",
	FieldGeoLongitude:    "GeoLongitude",
	FieldComment:         "Comment",
	FieldContact:         "Contact",
	FieldAttendees:       "Attendees",
	FieldOrganizer:       "Organizer",
	FieldRevision:        "Revision",
	FieldURL:             "URL",
	FieldCompleted:       "Completed",
	FieldPercentComplete: "PercentComplete",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "Unknown"
}

func sortedFields(set map[Field]struct{}) []Field {
	fields := make([]Field, 0, len(set))
	for f := range set {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

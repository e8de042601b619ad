package cal

// ITIPMethod is the iTIP scheduling method carried by a
// ScheduleMessage.
type ITIPMethod int32

const (
	ITIPPublish ITIPMethod = iota
	ITIPRequest
	ITIPRefresh
	ITIPCancel
	ITIPAdd
	ITIPReply
	ITIPCounter
	ITIPDeclineCounter
	ITIPNoMethod
)

// Machine-readable method names, not localized.
func MethodName(method ITIPMethod) string {
	switch method {
	case ITIPPublish:
		return "Publish"
	case ITIPRequest:
		return "Request"
	case ITIPRefresh:
		return "Refresh"
	case ITIPCancel:
		return "Cancel"
	case ITIPAdd:
		return "Add"
	case ITIPReply:
		return "Reply"
	case ITIPCounter:
		return "Counter"
	case ITIPDeclineCounter:
		return "Decline Counter"
	default:
		return "Unknown"
	}
}

// ScheduleMessageStatus is the disposition of a received or outgoing
// scheduling message.
type ScheduleMessageStatus int32

const (
	ScheduleMessagePublishNew ScheduleMessageStatus = iota
	ScheduleMessagePublishUpdate
	ScheduleMessageObsolete
	ScheduleMessageRequestNew
	ScheduleMessageRequestUpdate
	ScheduleMessageUnknown
)

func (s ScheduleMessageStatus) String() string {
	switch s {
	case ScheduleMessagePublishNew:
		return "PublishNew"
	case ScheduleMessagePublishUpdate:
		return "PublishUpdate"
	case ScheduleMessageObsolete:
		return "Obsolete"
	case ScheduleMessageRequestNew:
		return "RequestNew"
	case ScheduleMessageRequestUpdate:
		return "RequestUpdate"
	default:
		return "Unknown"
	}
}

// A scheduling message: an incidence paired with the iTIP method it
// travels under, a status and an optional error text. The incidence is
// shared, not owned.
type ScheduleMessage struct {
	incidence Incidence
	method    ITIPMethod
	status    ScheduleMessageStatus
	errText   string
}

func NewScheduleMessage(incidence Incidence, method ITIPMethod, status ScheduleMessageStatus) *ScheduleMessage {
	return &ScheduleMessage{
		incidence: incidence,
		method:    method,
		status:    status,
	}
}

// #region Getters

func (m *ScheduleMessage) GetIncidence() Incidence {
	return m.incidence
}

func (m *ScheduleMessage) GetMethod() ITIPMethod {
	return m.method
}

func (m *ScheduleMessage) GetStatus() ScheduleMessageStatus {
	return m.status
}

func (m *ScheduleMessage) GetError() string {
	return m.errText
}

// #endregion

func (m *ScheduleMessage) SetError(errText string) {
	m.errText = errText
}

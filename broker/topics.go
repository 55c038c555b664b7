package broker

const (
	TaskSubject         = "tasks.events"
	SharingSubject      = "sharing.events"
	CategorySubject     = "categories.events"
	UserSubject         = "users.events"
	NotificationSubject = "notifications.*"
)

// SubjectForEntity maps an outbox entity name to the subject it is published on.
func SubjectForEntity(entity string) string {
	switch entity {
	case "task":
		return TaskSubject
	case "invite", "collaborator":
		return SharingSubject
	case "category":
		return CategorySubject
	case "user":
		return UserSubject
	default:
		return TaskSubject
	}
}

// NotificationSubjectFor is the per-recipient push subject.
func NotificationSubjectFor(userID string) string {
	return "notifications." + userID
}

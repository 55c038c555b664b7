package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	TaskCreated       EventType = "task.created"
	TaskUpdated       EventType = "task.updated"
	TaskStatusChanged EventType = "task.status_changed"
	TaskDeleted       EventType = "task.deleted"
	TasksReordered    EventType = "task.reordered"

	InviteCreated EventType = "invite.created"
	InviteRevoked EventType = "invite.revoked"

	CollaboratorJoined  EventType = "collaborator.joined"
	CollaboratorUpdated EventType = "collaborator.updated"
	CollaboratorRemoved EventType = "collaborator.removed"

	CategoryCreated EventType = "category.created"
	CategoryUpdated EventType = "category.updated"
	CategoryDeleted EventType = "category.deleted"

	UserCreated EventType = "user.created"
)

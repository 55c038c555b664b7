package models

import (
	"github.com/google/uuid"
)

// RoleType is a user's derived access level on a task. It is never stored.
type RoleType string

const (
	OwnerRole  RoleType = "owner"  // Full access, including delete and sharing
	EditorRole RoleType = "editor" // Can edit content and status
	ViewerRole RoleType = "viewer" // Read-only access
	NoRole     RoleType = "none"
)

var roleRank = map[RoleType]int{
	OwnerRole:  3,
	EditorRole: 2,
	ViewerRole: 1,
	NoRole:     0,
}

// IsRoleSufficient checks if the assigned role is at least as powerful as the required role
func IsRoleSufficient(assigned RoleType, required RoleType) bool {
	return roleRank[assigned] >= roleRank[required]
}

// RoleOf derives userID's role on task from the owner column and the
// collaborator rows loaded on the task. The first matching collaborator row wins.
func RoleOf(userID uuid.UUID, task Task) RoleType {
	if userID == uuid.Nil {
		return NoRole
	}
	if task.UserID == userID {
		return OwnerRole
	}
	for _, c := range task.Collaborators {
		if c.UserID != userID {
			continue
		}
		if c.CanEdit {
			return EditorRole
		}
		return ViewerRole
	}
	return NoRole
}

func (r RoleType) CanView() bool {
	return IsRoleSufficient(r, ViewerRole)
}

func (r RoleType) CanEdit() bool {
	return IsRoleSufficient(r, EditorRole)
}

func (r RoleType) IsOwner() bool {
	return r == OwnerRole
}

package domain

import "github.com/dantweb/vbwd-sdk/internal/events"

type UserCreated struct {
	events.DomainEvent
	UserID int64
	Email  string
	Role   string
}

func NewUserCreated(userID int64, email, role string) *UserCreated {
	return &UserCreated{
		DomainEvent: events.NewDomainEvent(EventUserCreated, map[string]any{
			"user_id": userID,
			"email":   email,
			"role":    role,
		}),
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

type UserStatusUpdated struct {
	events.DomainEvent
	UserID    int64
	OldStatus string
	NewStatus string
	UpdatedBy *int64
	Reason    string
}

func NewUserStatusUpdated(userID int64, oldStatus, newStatus string, updatedBy *int64, reason string) *UserStatusUpdated {
	return &UserStatusUpdated{
		DomainEvent: events.NewDomainEvent(EventUserStatusUpdated, map[string]any{
			"user_id":    userID,
			"old_status": oldStatus,
			"new_status": newStatus,
			"updated_by": updatedBy,
			"reason":     reason,
		}),
		UserID:    userID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		UpdatedBy: updatedBy,
		Reason:    reason,
	}
}

type UserDeleted struct {
	events.DomainEvent
	UserID    int64
	DeletedBy *int64
	Reason    string
}

func NewUserDeleted(userID int64, deletedBy *int64, reason string) *UserDeleted {
	return &UserDeleted{
		DomainEvent: events.NewDomainEvent(EventUserDeleted, map[string]any{
			"user_id":    userID,
			"deleted_by": deletedBy,
			"reason":     reason,
		}),
		UserID:    userID,
		DeletedBy: deletedBy,
		Reason:    reason,
	}
}

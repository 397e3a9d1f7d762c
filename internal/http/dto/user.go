package dto

import (
	"time"

	"github.com/dantweb/vbwd-sdk/internal/model"
)

type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Role  string `json:"role,omitempty" binding:"omitempty,oneof=user admin vendor"`
}

type UpdateUserStatusRequest struct {
	Status    string `json:"status" binding:"required,oneof=pending active suspended deleted"`
	UpdatedBy *int64 `json:"updated_by,string,omitempty"`
	Reason    string `json:"reason,omitempty" binding:"max=500"`
}

type UserResponse struct {
	ID        int64     `json:"id,string"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Status:    string(u.Status),
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

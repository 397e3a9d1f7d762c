package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dantweb/vbwd-sdk/common/id"
	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

type UserService interface {
	Create(ctx context.Context, email string, role model.UserRole) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	UpdateStatus(ctx context.Context, id int64, status model.UserStatus, updatedBy *int64, reason string) (*model.User, error)
	Delete(ctx context.Context, id int64, deletedBy *int64, reason string) error
}

type userService struct {
	userStore store.UserStore
	emitter   events.Emitter
}

func NewUserService(userStore store.UserStore, emitter events.Emitter) UserService {
	return &userService{
		userStore: userStore,
		emitter:   emitter,
	}
}

func (s *userService) Create(ctx context.Context, email string, role model.UserRole) (*model.User, error) {
	if role == "" {
		role = model.UserRoleUser
	}
	user := &model.User{
		ID:     id.New(),
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Status: model.UserStatusPending,
		Role:   role,
	}

	if err := s.userStore.Save(ctx, user, nil); err != nil {
		slog.ErrorContext(ctx, "failed to create user",
			"error", err,
			"email", user.Email,
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(user.ID)})
	slog.InfoContext(ctx, "user created")
	s.emit(ctx, domain.NewUserCreated(user.ID, user.Email, string(user.Role)))
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, id int64, status model.UserStatus, updatedBy *int64, reason string) (*model.User, error) {
	var (
		user      *model.User
		oldStatus model.UserStatus
	)
	err := retryOnConflict(ctx, func() error {
		loaded, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		oldStatus = loaded.Status
		if oldStatus == status {
			user = loaded
			return nil
		}
		loaded.Status = status
		version := loaded.Version
		if err := s.userStore.Save(ctx, loaded, &version); err != nil {
			return err
		}
		user = loaded
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating user status: %w", err)
	}

	if oldStatus != status {
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
		slog.InfoContext(ctx, "user status updated", "old_status", oldStatus, "new_status", status)
		s.emit(ctx, domain.NewUserStatusUpdated(id, string(oldStatus), string(status), updatedBy, reason))
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64, deletedBy *int64, reason string) error {
	if err := s.userStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
	slog.InfoContext(ctx, "user deleted")
	s.emit(ctx, domain.NewUserDeleted(id, deletedBy, reason))
	return nil
}

func (s *userService) emit(ctx context.Context, e events.Event) {
	if s.emitter == nil {
		return
	}
	if res := s.emitter.Dispatch(ctx, e); !res.Success && res.ErrorType != events.ErrorTypeNoHandler {
		slog.WarnContext(ctx, "event handlers reported failure", "event", e.Name(), "error", res.Error)
	}
}

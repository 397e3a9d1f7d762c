package store

import (
	"context"

	"github.com/dantweb/vbwd-sdk/core/db/sqlc"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

type userStore struct {
	queries *sqlc.Queries
}

func newUserStore(queries *sqlc.Queries) UserStore {
	return &userStore{queries: queries}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) List(ctx context.Context, limit, offset int32) ([]model.User, error) {
	rows, err := s.queries.ListUsers(ctx, sqlc.ListUsersParams{Limit: limit, Offset: offset})
	return toModels(rows, err, toUserModel)
}

func (s *userStore) Save(ctx context.Context, user *model.User, expectedVersion *int) error {
	if isInsert(user.Version, expectedVersion) {
		row, err := s.queries.CreateUser(ctx, sqlc.CreateUserParams{
			ID:     user.ID,
			Email:  user.Email,
			Status: string(user.Status),
			Role:   string(user.Role),
		})
		if err != nil {
			return err
		}
		*user = *toUserModel(row)
		return nil
	}

	row, err := s.queries.UpdateUser(ctx, sqlc.UpdateUserParams{
		Email:           user.Email,
		Status:          string(user.Status),
		Role:            string(user.Role),
		ID:              user.ID,
		ExpectedVersion: expected(user.Version, expectedVersion),
	})
	if err != nil {
		return updateMiss(ctx, err, user.ID, s.queries.UserExists)
	}
	*user = *toUserModel(row)
	return nil
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	return deleted(s.queries.DeleteUser(ctx, id))
}

func toUserModel(row sqlc.User) *model.User {
	return &model.User{
		ID:        row.ID,
		Email:     row.Email,
		Status:    model.UserStatus(row.Status),
		Role:      model.UserRole(row.Role),
		Version:   int(row.Version),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

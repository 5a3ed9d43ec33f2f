/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/dto"
	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/types"
)

// Service implements the user operations.
type Service struct {
	users Repository
}

// NewService returns a user service.
func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Create validates req, hashes the password and inserts the user.
func (s *Service) Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	u := req.ToModel()
	if err := u.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// FindAll returns every user in insertion order.
func (s *Service) FindAll(ctx context.Context) ([]*model.User, error) {
	return s.users.FindAll(ctx)
}

// FindOne returns the user with id, or nil.
func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.FindOne(ctx, id)
}

// FindByEmail returns the user with email, or nil.
func (s *Service) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// Update overwrites the fields present in req. A nil user means no user
// has that id.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*model.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	var hashed string
	if req.Password != nil {
		var err error
		if hashed, err = model.HashPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}
	updated, err := s.users.Update(ctx, types.Where{model.ColumnUserID: id}, req.Changes(hashed))
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return updated, nil
}

// Remove deletes the user, reporting whether it existed.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}
	return deleted, nil
}

// Search returns one page of users matching query.
func (s *Service) Search(ctx context.Context, query dto.UserQuery, page int) (*types.Pagination[model.User], error) {
	return s.users.Filter(ctx, query.Where(), page)
}

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

package dto

import (
	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/types"
)

// CreateUserRequest is the body of a user registration.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

func (CreateUserRequest) messages() map[string]string {
	return map[string]string{
		"email.required":    "Email is required",
		"email.email":       "Email must be a valid email address",
		"password.required": "Password is required",
		"password.min":      "Password must be at least 6 characters",
		"name.required":     "Name is required",
	}
}

// ToModel returns the user with the password still in plain text; the
// service hashes it before insert.
func (r CreateUserRequest) ToModel() *model.User {
	return model.NewUser(model.UserFields{
		Email:    &r.Email,
		Password: &r.Password,
		Name:     &r.Name,
	})
}

// UpdateUserRequest is a partial user update.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitnil,email"`
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6"`
}

func (UpdateUserRequest) messages() map[string]string {
	return map[string]string{
		"email.email":  "Email must be a valid email address",
		"name.min":     "Name is required",
		"password.min": "Password must be at least 6 characters",
	}
}

// Changes returns the columns present in the request. hashed replaces the
// plain password when the request carries one.
func (r UpdateUserRequest) Changes(hashed string) *types.Changes {
	changes := types.NewChanges()
	if r.Email != nil {
		changes.Set(model.ColumnEmail, *r.Email)
	}
	if r.Name != nil {
		changes.Set(model.ColumnName, *r.Name)
	}
	if r.Password != nil {
		changes.Set(model.ColumnPassword, hashed)
	}
	return changes
}

// UserQuery filters users by exact column values.
type UserQuery struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

func (q UserQuery) Where() types.Where {
	where := types.Where{}
	if q.Email != nil {
		where[model.ColumnEmail] = *q.Email
	}
	if q.Name != nil {
		where[model.ColumnName] = *q.Name
	}
	return where
}

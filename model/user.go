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

package model

import (
	"context"

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/entity"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// User owns polls. Password holds a bcrypt hash and is never serialized.
type User struct {
	bun.BaseModel `bun:"table:user"`

	UserID   uuid.UUID `bun:"userId,pk,type:uuid" json:"userId"`
	Email    string    `bun:"email,notnull,unique" json:"email"`
	Password string    `bun:"password,notnull" json:"-"`
	Name     string    `bun:"name,notnull" json:"name"`
	Polls    []*Poll   `bun:"rel:has-many,join:userId=ownerUserId" json:"polls,omitempty"`
	entity.Base
}

// UserFields lists the caller-settable user columns. Nil fields are left
// at their zero value.
type UserFields struct {
	Email    *string
	Password *string
	Name     *string
}

// NewUser builds a user from the fields that are set.
func NewUser(f UserFields) *User {
	u := &User{}
	if f.Email != nil {
		u.Email = *f.Email
	}
	if f.Password != nil {
		u.Password = *f.Password
	}
	if f.Name != nil {
		u.Name = *f.Name
	}
	return u
}

var _ bun.BeforeAppendModelHook = (*User)(nil)

// BeforeAppendModel assigns the key and timestamps.
func (u *User) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	u.Touch(query)
	return nil
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SetPassword replaces the stored hash with one for plain.
func (u *User) SetPassword(plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

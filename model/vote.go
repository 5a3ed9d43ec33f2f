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
)

// Vote is a bare record with a key and timestamps; it is not linked to a
// user, poll or option.
type Vote struct {
	bun.BaseModel `bun:"table:vote"`

	VoteID uuid.UUID `bun:"voteId,pk,type:uuid" json:"voteId"`
	entity.Base
}

// VoteFields is empty: a vote has no caller-settable columns.
type VoteFields struct{}

// NewVote returns an unsaved vote.
func NewVote(VoteFields) *Vote {
	return &Vote{}
}

var _ bun.BeforeAppendModelHook = (*Vote)(nil)

// BeforeAppendModel assigns the key and timestamps.
func (v *Vote) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && v.VoteID == uuid.Nil {
		v.VoteID = uuid.New()
	}
	v.Touch(query)
	return nil
}

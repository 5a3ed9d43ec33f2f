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
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/entity"
	"github.com/uptrace/bun"
)

// Poll is a question owned by a user, answered through its options.
type Poll struct {
	bun.BaseModel `bun:"table:poll"`

	PollID      uuid.UUID     `bun:"pollId,pk,type:uuid" json:"pollId"`
	Question    string        `bun:"question,notnull" json:"question"`
	StartDate   time.Time     `bun:"startDate,notnull" json:"startDate"`
	EndDate     time.Time     `bun:"endDate,notnull" json:"endDate"`
	Visibility  Visibility    `bun:"visibility,notnull,default:'public'" json:"visibility"`
	OwnerUserID uuid.UUID     `bun:"ownerUserId,notnull,type:uuid" json:"ownerUserId"`
	Owner       *User         `bun:"rel:belongs-to,join:ownerUserId=userId" json:"owner,omitempty"`
	Options     []*PollOption `bun:"rel:has-many,join:pollId=pollId" json:"options,omitempty"`
	entity.Base
}

// PollFields lists the caller-settable poll columns.
type PollFields struct {
	Question    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Visibility  *Visibility
	OwnerUserID *uuid.UUID
}

// NewPoll builds a poll from the fields that are set.
func NewPoll(f PollFields) *Poll {
	p := &Poll{}
	if f.Question != nil {
		p.Question = *f.Question
	}
	if f.StartDate != nil {
		p.StartDate = *f.StartDate
	}
	if f.EndDate != nil {
		p.EndDate = *f.EndDate
	}
	if f.Visibility != nil {
		p.Visibility = *f.Visibility
	}
	if f.OwnerUserID != nil {
		p.OwnerUserID = *f.OwnerUserID
	}
	return p
}

var _ bun.BeforeAppendModelHook = (*Poll)(nil)

// BeforeAppendModel assigns the key and timestamps and defaults the visibility on insert.
func (p *Poll) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if p.PollID == uuid.Nil {
			p.PollID = uuid.New()
		}
		if p.Visibility == "" {
			p.Visibility = VisibilityPublic
		}
	}
	p.Touch(query)
	return nil
}

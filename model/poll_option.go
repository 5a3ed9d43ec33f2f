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

// PollOption is one answer of a poll. Count is stored but never tallied
// by this service.
type PollOption struct {
	bun.BaseModel `bun:"table:poll_option"`

	OptionID uuid.UUID `bun:"optionId,pk,type:uuid" json:"optionId"`
	Text     string    `bun:"text,notnull" json:"text"`
	Count    int       `bun:"count,notnull,default:0" json:"count"`
	PollID   uuid.UUID `bun:"pollId,notnull,type:uuid" json:"pollId"`
	entity.Base
}

// PollOptionFields holds the optional values accepted by NewPollOption.
type PollOptionFields struct {
	Text   *string
	Count  *int
	PollID *uuid.UUID
}

// NewPollOption builds an option from the fields that are set.
func NewPollOption(f PollOptionFields) *PollOption {
	o := &PollOption{}
	if f.Text != nil {
		o.Text = *f.Text
	}
	if f.Count != nil {
		o.Count = *f.Count
	}
	if f.PollID != nil {
		o.PollID = *f.PollID
	}
	return o
}

var _ bun.BeforeAppendModelHook = (*PollOption)(nil)

// BeforeAppendModel assigns the key and timestamps.
func (o *PollOption) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && o.OptionID == uuid.Nil {
		o.OptionID = uuid.New()
	}
	o.Touch(query)
	return nil
}

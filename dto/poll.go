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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/types"
)

var visibilityMessage = "Visibility must be one of " + strings.Join(model.VisibilityNames(), ", ")

// DefaultPollDuration is how long a poll runs when no end date is given.
const DefaultPollDuration = 7 * 24 * time.Hour

// CreatePollRequest is the body of a poll creation.
type CreatePollRequest struct {
	Question   string     `json:"question" validate:"required"`
	Options    []string   `json:"options" validate:"min=2,dive,required"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Visibility *string    `json:"visibility,omitempty" validate:"omitnil,oneof=public private"`
}

func (CreatePollRequest) messages() map[string]string {
	return map[string]string{
		"question.required":  "Question is required",
		"options.min":        "At least two options are required",
		"options[].required": "Option text is required",
		"visibility.oneof":   visibilityMessage,
	}
}

// ToModel builds the poll and its options for owner, filling in the
// default dates and visibility.
func (r CreatePollRequest) ToModel(owner uuid.UUID, now time.Time) (*model.Poll, []*model.PollOption) {
	start := now
	if r.StartDate != nil {
		start = r.StartDate.UTC()
	}
	end := start.Add(DefaultPollDuration)
	if r.EndDate != nil {
		end = r.EndDate.UTC()
	}
	visibility := model.VisibilityPublic
	if r.Visibility != nil {
		visibility = model.Visibility(*r.Visibility)
	}

	poll := model.NewPoll(model.PollFields{
		Question:    &r.Question,
		StartDate:   &start,
		EndDate:     &end,
		Visibility:  &visibility,
		OwnerUserID: &owner,
	})
	options := make([]*model.PollOption, 0, len(r.Options))
	for _, text := range r.Options {
		options = append(options, model.NewPollOption(model.PollOptionFields{Text: model.Ptr(text)}))
	}
	return poll, options
}

// UpdatePollRequest is a partial poll update.
type UpdatePollRequest struct {
	Question   *string    `json:"question,omitempty" validate:"omitnil,min=1"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Visibility *string    `json:"visibility,omitempty" validate:"omitnil,oneof=public private"`
}

func (UpdatePollRequest) messages() map[string]string {
	return map[string]string{
		"question.min":     "Question is required",
		"visibility.oneof": visibilityMessage,
	}
}

// Changes returns the columns present in the request.
func (r UpdatePollRequest) Changes() *types.Changes {
	changes := types.NewChanges()
	if r.Question != nil {
		changes.Set(model.ColumnQuestion, *r.Question)
	}
	if r.StartDate != nil {
		changes.Set(model.ColumnStartDate, r.StartDate.UTC())
	}
	if r.EndDate != nil {
		changes.Set(model.ColumnEndDate, r.EndDate.UTC())
	}
	if r.Visibility != nil {
		changes.Set(model.ColumnVisibility, *r.Visibility)
	}
	return changes
}

// PollQuery filters polls by exact column values.
type PollQuery struct {
	Visibility  *string    `json:"visibility,omitempty" validate:"omitnil,oneof=public private"`
	OwnerUserID *uuid.UUID `json:"ownerUserId,omitempty"`
}

func (q PollQuery) Where() types.Where {
	where := types.Where{}
	if q.Visibility != nil {
		where[model.ColumnVisibility] = *q.Visibility
	}
	if q.OwnerUserID != nil {
		where[model.ColumnOwnerUserID] = *q.OwnerUserID
	}
	return where
}

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

package poll

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/dto"
	"github.com/tomoncle/pollbox/entity"
	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/types"
	"github.com/uptrace/bun"
)

// ErrOwnerNotFound is returned when a poll is created for an unknown user.
var ErrOwnerNotFound = errors.New("poll owner not found")

// OwnerLookup reports whether a user exists.
type OwnerLookup interface {
	Exists(ctx context.Context, where types.Where) (bool, error)
}

// Service implements the poll operations.
type Service struct {
	polls  Repository
	owners OwnerLookup
}

// NewService returns a poll service. owners may be nil to skip the owner check.
func NewService(polls Repository, owners OwnerLookup) *Service {
	return &Service{polls: polls, owners: owners}
}

// Create validates req and inserts the poll and its options atomically.
// Validation failures are returned before anything touches the database.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreatePollRequest) (*model.Poll, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if s.owners != nil {
		ok, err := s.owners.Exists(ctx, types.Where{model.ColumnUserID: ownerID})
		if err != nil {
			return nil, fmt.Errorf("look up owner %s: %w", ownerID, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrOwnerNotFound, ownerID)
		}
	}

	p, options := req.ToModel(ownerID, entity.Now())
	err := s.polls.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.polls.CreateWithTx(ctx, tx, p); err != nil {
			return err
		}
		for _, o := range options {
			o.PollID = p.PollID
		}
		created, err := s.polls.Options().CreateManyWithTx(ctx, tx, options)
		if err != nil {
			return err
		}
		p.Options = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}
	return p, nil
}

// FindAll returns every poll in insertion order.
func (s *Service) FindAll(ctx context.Context) ([]*model.Poll, error) {
	return s.polls.FindAll(ctx)
}

// FindOne returns the poll with its options, or nil.
func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*model.Poll, error) {
	return s.polls.FindWithOptions(ctx, id)
}

// Update overwrites the fields present in req and returns the poll with its
// options, or nil when no poll has that id.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePollRequest) (*model.Poll, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	updated, err := s.polls.Update(ctx, types.Where{model.ColumnPollID: id}, req.Changes())
	if err != nil {
		return nil, fmt.Errorf("update poll %s: %w", id, err)
	}
	if updated == nil {
		return nil, nil
	}
	return s.polls.FindWithOptions(ctx, id)
}

// Remove deletes the poll and its options, reporting whether it existed.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.polls.DeleteWithOptions(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete poll %s: %w", id, err)
	}
	return deleted, nil
}

// Search returns one page of polls matching query.
func (s *Service) Search(ctx context.Context, query dto.PollQuery, page int) (*types.Pagination[model.Poll], error) {
	if err := dto.Validate(query); err != nil {
		return nil, err
	}
	return s.polls.Filter(ctx, query.Where(), page)
}

// ListByOwner returns one page of the polls owned by ownerID.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, page int) (*types.Pagination[model.Poll], error) {
	return s.polls.Filter(ctx, types.Where{model.ColumnOwnerUserID: ownerID}, page)
}

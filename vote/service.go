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

package vote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox"
	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/repository"
	"github.com/tomoncle/pollbox/types"
	"github.com/uptrace/bun"
)

// NewRepository returns the generic repository for votes.
func NewRepository(db *bun.DB) repository.Repository[model.Vote] {
	return repository.NewRepository[model.Vote](db)
}

// Service implements the vote operations.
type Service struct {
	votes pollbox.Service[model.Vote]
}

// NewService returns a vote service.
func NewService(votes repository.Repository[model.Vote]) *Service {
	return &Service{votes: pollbox.NewService(votes)}
}

// Cast records a new vote.
func (s *Service) Cast(ctx context.Context) (*model.Vote, error) {
	v, err := s.votes.Save(ctx, model.NewVote(model.VoteFields{}))
	if err != nil {
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	return v, nil
}

// FindOne returns the vote with id, or nil.
func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*model.Vote, error) {
	return s.votes.Get(ctx, id)
}

// Remove deletes the vote, reporting whether it existed.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.votes.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete vote %s: %w", id, err)
	}
	return deleted, nil
}

// Search returns one page of votes.
func (s *Service) Search(ctx context.Context, page int) (*types.Pagination[model.Vote], error) {
	return s.votes.Filter(ctx, nil, page)
}

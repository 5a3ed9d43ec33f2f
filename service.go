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

package pollbox

import (
	"context"

	"github.com/tomoncle/pollbox/repository"
	"github.com/tomoncle/pollbox/types"
	"github.com/uptrace/bun"
)

// Service is a thin pass-through over repository.Repository for record
// types that need no extra rules.
type Service[T any] interface {
	// Get returns a single entity by its primary key, or nil.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities in insertion order.
	All(ctx context.Context) ([]*T, error)

	// Find returns the first entity matching where, or nil.
	Find(ctx context.Context, where types.Where) (*T, error)

	// Filter returns one fixed-size page of entities matching where.
	Filter(ctx context.Context, where types.Where, page int) (*types.Pagination[T], error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Save inserts a new entity.
	Save(ctx context.Context, model *T) (*T, error)

	// SaveAll inserts entities in one batch.
	SaveAll(ctx context.Context, models []*T) ([]*T, error)

	// Update applies changes to the entities matching where.
	Update(ctx context.Context, where types.Where, changes *types.Changes) (*T, error)

	// Delete removes an entity by its primary key.
	Delete(ctx context.Context, id any) (bool, error)

	// SaveWithTx inserts an entity within an existing transaction.
	SaveWithTx(ctx context.Context, tx bun.IDB, model *T) (*T, error)

	// UpdateWithTx updates entities within a transaction.
	UpdateWithTx(ctx context.Context, tx bun.IDB, where types.Where, changes *types.Changes) (*T, error)

	// DeleteWithTx removes an entity within a transaction.
	DeleteWithTx(ctx context.Context, tx bun.IDB, id any) (bool, error)

	// SelectBuilder returns a Bun select query builder for the entity.
	SelectBuilder() *bun.SelectQuery

	// Repository returns the underlying repository.
	Repository() repository.Repository[T]
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
}

// NewService returns a default Service implementation over repo.
func NewService[T any](repo repository.Repository[T]) Service[T] {
	return &baseServiceImpl[T]{repo: repo}
}

func (s *baseServiceImpl[T]) Repository() repository.Repository[T] {
	return s.repo
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.repo.FindOne(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	return s.repo.FindAll(ctx)
}

func (s *baseServiceImpl[T]) Find(ctx context.Context, where types.Where) (*T, error) {
	return s.repo.FindOneBy(ctx, where)
}

func (s *baseServiceImpl[T]) Filter(ctx context.Context, where types.Where, page int) (*types.Pagination[T], error) {
	return s.repo.Filter(ctx, where, page)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	return s.repo.Page(ctx, page)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model *T) (*T, error) {
	return s.repo.Create(ctx, model)
}

func (s *baseServiceImpl[T]) SaveAll(ctx context.Context, models []*T) ([]*T, error) {
	return s.repo.CreateMany(ctx, models)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, where types.Where, changes *types.Changes) (*T, error) {
	return s.repo.Update(ctx, where, changes)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx bun.IDB, model *T) (*T, error) {
	return s.repo.CreateWithTx(ctx, tx, model)
}

func (s *baseServiceImpl[T]) UpdateWithTx(ctx context.Context, tx bun.IDB, where types.Where, changes *types.Changes) (*T, error) {
	return s.repo.UpdateWithTx(ctx, tx, where, changes)
}

func (s *baseServiceImpl[T]) DeleteWithTx(ctx context.Context, tx bun.IDB, id any) (bool, error) {
	return s.repo.DeleteWithTx(ctx, tx, id)
}

func (s *baseServiceImpl[T]) SelectBuilder() *bun.SelectQuery {
	return s.repo.NewSelect()
}

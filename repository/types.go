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

package repository

import (
	"context"
	"errors"

	"github.com/tomoncle/pollbox/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

var (
	// ErrUnknownColumn is returned when a predicate or change names a column
	// the entity's table does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrImmutableColumn is returned when a change targets a primary key or
	// a system timestamp.
	ErrImmutableColumn = errors.New("immutable column")
	// ErrNoPrimaryKey is returned by key-based operations on tables without
	// exactly one primary key column.
	ErrNoPrimaryKey = errors.New("table has no single primary key")
	// ErrEmptyPredicate is returned by Update when where matches every row.
	ErrEmptyPredicate = errors.New("update requires a non-empty predicate")
)

// CrudRepository defines basic CRUD operations for a generic entity type.
// Lookups return (nil, nil) when nothing matches.
type CrudRepository[T any] interface {
	FindAll(ctx context.Context) ([]*T, error)

	FindOne(ctx context.Context, id any) (*T, error)

	FindOneBy(ctx context.Context, where types.Where) (*T, error)

	FindBy(ctx context.Context, where types.Where) ([]*T, error)

	Count(ctx context.Context, where types.Where) (int, error)

	Exists(ctx context.Context, where types.Where) (bool, error)

	Create(ctx context.Context, entity *T) (*T, error)

	CreateMany(ctx context.Context, entities []*T) ([]*T, error)

	Update(ctx context.Context, where types.Where, changes *types.Changes) (*T, error)

	Delete(ctx context.Context, id any) (bool, error)
}

// TransactionRepository runs the write operations on a caller-supplied
// bun.IDB, usually the bun.Tx handed out by RunInTx.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx bun.IDB, entity *T) (*T, error)
	CreateManyWithTx(ctx context.Context, tx bun.IDB, entities []*T) ([]*T, error)
	UpdateWithTx(ctx context.Context, tx bun.IDB, where types.Where, changes *types.Changes) (*T, error)
	DeleteWithTx(ctx context.Context, tx bun.IDB, id any) (bool, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	// Filter returns one page of DefaultPageSize rows in insertion order.
	Filter(ctx context.Context, where types.Where, page int) (*types.Pagination[T], error)
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines CRUD, pagination, and transactional operations and
// exposes Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	Table() *schema.Table
	Dialect() schema.Dialect
	DB() *bun.DB
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}

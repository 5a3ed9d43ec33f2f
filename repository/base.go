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
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/tomoncle/pollbox/entity"
	"github.com/tomoncle/pollbox/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db    *bun.DB
	table *schema.Table
}

// NewRepository returns a generic repository backed by the provided Bun DB.
// T must be a bun model struct.
func NewRepository[T any](db *bun.DB) Repository[T] {
	return &baseRepositoryImpl[T]{
		db:    db,
		table: db.Table(reflect.TypeOf((*T)(nil)).Elem()),
	}
}

func (r *baseRepositoryImpl[T]) Table() *schema.Table { return r.table }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) DB() *bun.DB { return r.db }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) FindAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.orderByInsertion(r.db.NewSelect().Model(&entities)).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) FindOne(ctx context.Context, id any) (*T, error) {
	pk, err := r.primaryKey()
	if err != nil {
		return nil, err
	}
	return r.FindOneBy(ctx, types.Where{pk: id})
}

func (r *baseRepositoryImpl[T]) FindOneBy(ctx context.Context, where types.Where) (*T, error) {
	return r.findOneBy(ctx, r.db, where)
}

func (r *baseRepositoryImpl[T]) findOneBy(ctx context.Context, db bun.IDB, where types.Where) (*T, error) {
	if err := r.checkColumns(where.Columns()); err != nil {
		return nil, err
	}
	record := new(T)
	query := r.orderByInsertion(applyWhere(db.NewSelect().Model(record), where)).Limit(1)
	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *baseRepositoryImpl[T]) FindBy(ctx context.Context, where types.Where) ([]*T, error) {
	if err := r.checkColumns(where.Columns()); err != nil {
		return nil, err
	}
	entities := make([]*T, 0)
	err := r.orderByInsertion(applyWhere(r.db.NewSelect().Model(&entities), where)).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, where types.Where) (int, error) {
	if err := r.checkColumns(where.Columns()); err != nil {
		return 0, err
	}
	return applyWhere(r.db.NewSelect().Model((*T)(nil)), where).Count(ctx)
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, where types.Where) (bool, error) {
	if err := r.checkColumns(where.Columns()); err != nil {
		return false, err
	}
	return applyWhere(r.db.NewSelect().Model((*T)(nil)), where).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) Filter(ctx context.Context, where types.Where, page int) (*types.Pagination[T], error) {
	return r.Page(ctx, types.NewPageRequestWithFilter(page, types.DefaultPageSize, where))
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	filter := pageRequest.GetFilter()
	if err := r.checkColumns(filter.Columns()); err != nil {
		return nil, err
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())

	total, err := applyWhere(r.db.NewSelect().Model((*T)(nil)), filter).Count(ctx)
	if err != nil {
		return nil, err
	}
	pagination.SetTotal(total)
	if total == 0 || pageRequest.GetOffset() >= total {
		return pagination, nil
	}

	entities := make([]*T, 0, pageRequest.GetPageSize())
	query := applyWhere(r.db.NewSelect().Model(&entities), filter)
	if orders := pageRequest.GetOrders(); len(orders) > 0 {
		query = query.Order(orders...)
	} else {
		query = r.orderByInsertion(query)
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, record *T) (*T, error) {
	return r.CreateWithTx(ctx, r.db, record)
}

func (r *baseRepositoryImpl[T]) CreateMany(ctx context.Context, entities []*T) ([]*T, error) {
	return r.CreateManyWithTx(ctx, r.db, entities)
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, where types.Where, changes *types.Changes) (*T, error) {
	var updated *T
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		updated, err = r.UpdateWithTx(ctx, tx, where, changes)
		return err
	})
	return updated, err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) (bool, error) {
	return r.DeleteWithTx(ctx, r.db, id)
}

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return r.db.RunInTx(ctx, nil, fn)
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx bun.IDB, record *T) (*T, error) {
	if record == nil {
		return nil, fmt.Errorf("create %s: nil entity", r.table.Name)
	}
	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *baseRepositoryImpl[T]) CreateManyWithTx(ctx context.Context, tx bun.IDB, entities []*T) ([]*T, error) {
	if len(entities) == 0 {
		return entities, nil
	}
	for i, e := range entities {
		if e == nil {
			return nil, fmt.Errorf("create %s: nil entity at index %d", r.table.Name, i)
		}
	}
	if _, err := tx.NewInsert().Model(&entities).Exec(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

// UpdateWithTx writes changes to every row matching where, bumps updatedAt,
// and returns the earliest matching row re-read by primary key. Zero
// matches yields (nil, nil).
func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx bun.IDB, where types.Where, changes *types.Changes) (*T, error) {
	if len(where) == 0 {
		return nil, ErrEmptyPredicate
	}
	if err := r.checkColumns(where.Columns()); err != nil {
		return nil, err
	}
	if err := r.checkChanges(changes); err != nil {
		return nil, err
	}
	first, err := r.findOneBy(ctx, tx, where)
	if err != nil || first == nil || changes.Len() == 0 {
		return first, err
	}
	pk, err := r.primaryKey()
	if err != nil {
		return nil, err
	}
	id := r.table.PKs[0].Value(reflect.ValueOf(first).Elem()).Interface()

	query := tx.NewUpdate().Model((*T)(nil))
	for _, column := range changes.Columns() {
		value, _ := changes.Get(column)
		query = query.Set("? = ?", bun.Ident(column), value)
	}
	if r.table.HasField(entity.UpdatedAtColumn) {
		query = query.Set("? = ?", bun.Ident(entity.UpdatedAtColumn), entity.Now())
	}
	for _, column := range where.Columns() {
		query = whereColumn(query, column, where[column])
	}

	result, err := query.Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err != nil || n == 0 {
		return nil, err
	}
	return r.findOneBy(ctx, tx, types.Where{pk: id})
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx bun.IDB, id any) (bool, error) {
	pk, err := r.primaryKey()
	if err != nil {
		return false, err
	}
	result, err := tx.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(pk), id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *baseRepositoryImpl[T]) primaryKey() (string, error) {
	if len(r.table.PKs) != 1 {
		return "", fmt.Errorf("%w: %s", ErrNoPrimaryKey, r.table.Name)
	}
	return r.table.PKs[0].Name, nil
}

func (r *baseRepositoryImpl[T]) checkColumns(columns []string) error {
	for _, column := range columns {
		if !r.table.HasField(column) {
			return fmt.Errorf("%w: %q on %s", ErrUnknownColumn, column, r.table.Name)
		}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) checkChanges(changes *types.Changes) error {
	columns := changes.Columns()
	if err := r.checkColumns(columns); err != nil {
		return err
	}
	for _, column := range columns {
		if entity.IsTimestampColumn(column) {
			return fmt.Errorf("%w: %q on %s", ErrImmutableColumn, column, r.table.Name)
		}
		for _, pk := range r.table.PKs {
			if pk.Name == column {
				return fmt.Errorf("%w: %q on %s", ErrImmutableColumn, column, r.table.Name)
			}
		}
	}
	return nil
}

// orderByInsertion sorts by createdAt when the table has it, then by key.
func (r *baseRepositoryImpl[T]) orderByInsertion(query *bun.SelectQuery) *bun.SelectQuery {
	if r.table.HasField(entity.CreatedAtColumn) {
		query = query.OrderExpr("?TableAlias.? ASC", bun.Ident(entity.CreatedAtColumn))
	}
	for _, pk := range r.table.PKs {
		query = query.OrderExpr("?TableAlias.? ASC", bun.Ident(pk.Name))
	}
	return query
}

type whereQuery[Q any] interface {
	Where(query string, args ...interface{}) Q
}

func whereColumn[Q whereQuery[Q]](query Q, column string, value any) Q {
	if value == nil {
		return query.Where("? IS NULL", bun.Ident(column))
	}
	return query.Where("? = ?", bun.Ident(column), value)
}

func applyWhere(query *bun.SelectQuery, where types.Where) *bun.SelectQuery {
	for _, column := range where.Columns() {
		value := where[column]
		if value == nil {
			query = query.Where("?TableAlias.? IS NULL", bun.Ident(column))
			continue
		}
		query = query.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
	return query
}

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
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/entity"
	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/repository"
	"github.com/uptrace/bun"
)

// Repository stores polls; Options stores their answers.
type Repository interface {
	repository.Repository[model.Poll]
	Options() repository.Repository[model.PollOption]
	// FindWithOptions loads a poll and its options in creation order.
	FindWithOptions(ctx context.Context, id uuid.UUID) (*model.Poll, error)
	// DeleteWithOptions removes a poll and its options in one transaction.
	DeleteWithOptions(ctx context.Context, id uuid.UUID) (bool, error)
}

type pollRepository struct {
	repository.Repository[model.Poll]
	options repository.Repository[model.PollOption]
}

// NewRepository returns the poll repository backed by db.
func NewRepository(db *bun.DB) Repository {
	return &pollRepository{
		Repository: repository.NewRepository[model.Poll](db),
		options:    repository.NewRepository[model.PollOption](db),
	}
}

func (r *pollRepository) Options() repository.Repository[model.PollOption] {
	return r.options
}

// FindWithOptions returns the poll with its options in insertion order, or nil.
func (r *pollRepository) FindWithOptions(ctx context.Context, id uuid.UUID) (*model.Poll, error) {
	p := new(model.Poll)
	err := r.NewSelect().
		Model(p).
		Relation("Options", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.? ASC", bun.Ident(entity.CreatedAtColumn))
		}).
		Where("?TableAlias.? = ?", bun.Ident(model.ColumnPollID), id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if p.Options == nil {
		p.Options = make([]*model.PollOption, 0)
	}
	return p, nil
}

// DeleteWithOptions removes the options explicitly so the result does not
// depend on the dialect enforcing ON DELETE CASCADE.
func (r *pollRepository) DeleteWithOptions(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*model.PollOption)(nil)).
			Where("? = ?", bun.Ident(model.ColumnPollID), id).
			Exec(ctx)
		if err != nil {
			return err
		}
		deleted, err = r.DeleteWithTx(ctx, tx, id)
		return err
	})
	return deleted, err
}

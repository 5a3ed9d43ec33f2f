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

package user

import (
	"context"

	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/repository"
	"github.com/tomoncle/pollbox/types"
	"github.com/uptrace/bun"
)

// Repository stores users.
type Repository interface {
	repository.Repository[model.User]
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	repository.Repository[model.User]
}

// NewRepository returns the user repository backed by db.
func NewRepository(db *bun.DB) Repository {
	return &userRepository{Repository: repository.NewRepository[model.User](db)}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.FindOneBy(ctx, types.Where{model.ColumnEmail: email})
}

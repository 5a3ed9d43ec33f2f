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
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/pollbox/entity"
	"github.com/tomoncle/pollbox/internal/dbtest"
	"github.com/tomoncle/pollbox/types"
	"github.com/uptrace/bun"
)

type widget struct {
	bun.BaseModel `bun:"table:widget"`

	WidgetID uuid.UUID `bun:"widgetId,pk,type:uuid"`
	Name     string    `bun:"name,notnull"`
	Color    string    `bun:"color"`
	Size     int       `bun:"size,notnull"`
	entity.Base
}

var _ bun.BeforeAppendModelHook = (*widget)(nil)

func (w *widget) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && w.WidgetID == uuid.Nil {
		w.WidgetID = uuid.New()
	}
	w.Touch(query)
	return nil
}

func newWidgetRepo(t *testing.T) Repository[widget] {
	t.Helper()
	return NewRepository[widget](dbtest.Open(t, (*widget)(nil)))
}

func seedWidgets(t *testing.T, repo Repository[widget], n int, color string) []*widget {
	t.Helper()
	widgets := make([]*widget, n)
	for i := range widgets {
		widgets[i] = &widget{Name: fmt.Sprintf("w-%02d", i+1), Color: color, Size: i}
	}
	created, err := repo.CreateMany(context.Background(), widgets)
	require.NoError(t, err)
	return created
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()

	supplied := entity.Now().AddDate(-1, 0, 0)
	w := &widget{Name: "gear", Color: "red", Base: entity.Base{CreatedAt: supplied, UpdatedAt: supplied}}
	created, err := repo.Create(ctx, w)
	require.NoError(t, err)
	assert.Same(t, w, created)
	assert.NotEqual(t, uuid.Nil, created.WidgetID)
	assert.True(t, created.CreatedAt.After(supplied))
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))

	other, err := repo.Create(ctx, &widget{Name: "gear"})
	require.NoError(t, err)
	assert.NotEqual(t, created.WidgetID, other.WidgetID)
}

func TestRoundTrip(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &widget{Name: "sprocket", Color: "blue", Size: 7})
	require.NoError(t, err)

	found, err := repo.FindOne(ctx, created.WidgetID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "sprocket", found.Name)
	assert.Equal(t, "blue", found.Color)
	assert.Equal(t, 7, found.Size)
	assert.Equal(t, created.WidgetID, found.WidgetID)
	assert.True(t, created.CreatedAt.Equal(found.CreatedAt), "%s != %s", created.CreatedAt, found.CreatedAt)
	assert.False(t, found.UpdatedAt.Before(found.CreatedAt))
}

func TestFindOneByMissingReturnsNil(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	seedWidgets(t, repo, 2, "red")

	found, err := repo.FindOneBy(ctx, types.Where{"color": "green"})
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindOne(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindOneByReturnsEarliest(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	widgets := seedWidgets(t, repo, 3, "red")

	found, err := repo.FindOneBy(ctx, types.Where{"color": "red"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, widgets[0].WidgetID, found.WidgetID)

	found, err = repo.FindOneBy(ctx, types.Where{"color": "red", "name": "w-02"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, widgets[1].WidgetID, found.WidgetID)
}

func TestUnknownColumn(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()

	_, err := repo.FindOneBy(ctx, types.Where{"colour": "red"})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = repo.Filter(ctx, types.Where{"; DROP TABLE widget": 1}, 1)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = repo.Update(ctx, types.Where{"name": "x"}, types.NewChanges().Set("weight", 3))
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFindAllInsertionOrder(t *testing.T) {
	repo := newWidgetRepo(t)
	widgets := seedWidgets(t, repo, 5, "red")

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := range widgets {
		assert.Equal(t, widgets[i].WidgetID, all[i].WidgetID)
	}
}

func TestFilterPaging(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	widgets := seedWidgets(t, repo, 23, "red")
	seedWidgets(t, repo, 2, "blue")

	cases := []struct {
		page     int
		wantPage int
		from, to int
	}{
		{1, 1, 0, 10},
		{2, 2, 10, 20},
		{3, 3, 20, 23},
		{4, 4, 23, 23},
		{0, 1, 0, 10},
		{-3, 1, 0, 10},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			result, err := repo.Filter(ctx, types.Where{"color": "red"}, tc.page)
			require.NoError(t, err)
			assert.Equal(t, 23, result.Total)
			assert.Equal(t, 3, result.LastPage)
			assert.Equal(t, tc.wantPage, result.Page)
			require.Len(t, result.Items, tc.to-tc.from)
			for i, item := range result.Items {
				assert.Equal(t, widgets[tc.from+i].WidgetID, item.WidgetID)
			}
		})
	}
}

func TestFilterHugePageIsEmpty(t *testing.T) {
	repo := newWidgetRepo(t)
	seedWidgets(t, repo, 3, "red")

	for _, page := range []int{math.MaxInt/10 + 2, math.MaxInt} {
		result, err := repo.Filter(context.Background(), nil, page)
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 1, result.LastPage)
	}
}

func TestFilterEmpty(t *testing.T) {
	repo := newWidgetRepo(t)
	result, err := repo.Filter(context.Background(), types.Where{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.LastPage)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestFilterExactMultiple(t *testing.T) {
	repo := newWidgetRepo(t)
	seedWidgets(t, repo, 20, "red")
	result, err := repo.Filter(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.LastPage)
	assert.Len(t, result.Items, 10)
}

func TestUpdate(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	widgets := seedWidgets(t, repo, 3, "red")
	target := widgets[1]

	updated, err := repo.Update(ctx,
		types.Where{"widgetId": target.WidgetID},
		types.NewChanges().Set("color", "green").Set("size", 42))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "green", updated.Color)
	assert.Equal(t, 42, updated.Size)
	assert.Equal(t, target.Name, updated.Name)
	assert.True(t, updated.CreatedAt.Equal(target.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(target.UpdatedAt))

	untouched, err := repo.FindOne(ctx, widgets[0].WidgetID)
	require.NoError(t, err)
	assert.Equal(t, "red", untouched.Color)
}

func TestUpdateRefetchesByChangedPredicate(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	widgets := seedWidgets(t, repo, 3, "red")

	updated, err := repo.Update(ctx, types.Where{"color": "red"}, types.NewChanges().Set("color", "black"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, widgets[0].WidgetID, updated.WidgetID)
	assert.Equal(t, "black", updated.Color)

	n, err := repo.Count(ctx, types.Where{"color": "black"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpdateReturnsUpdatedRowWhenValueAlreadyExists(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	older := seedWidgets(t, repo, 1, "black")[0]
	target, err := repo.Create(ctx, &widget{Name: "red-one", Color: "red"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, types.Where{"color": "red"}, types.NewChanges().Set("color", "black"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, target.WidgetID, updated.WidgetID)
	assert.NotEqual(t, older.WidgetID, updated.WidgetID)
	assert.Equal(t, "red-one", updated.Name)
	assert.Equal(t, "black", updated.Color)
}

func TestUpdateNoMatch(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	seedWidgets(t, repo, 2, "red")
	before, err := repo.FindAll(ctx)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, types.Where{"color": "purple"}, types.NewChanges().Set("name", "nope"))
	require.NoError(t, err)
	assert.Nil(t, updated)

	after, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt))
	}
}

func TestUpdateRejectsImmutableColumns(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	where := types.Where{"name": "w-01"}

	for _, column := range []string{"widgetId", entity.CreatedAtColumn, entity.UpdatedAtColumn} {
		_, err := repo.Update(ctx, where, types.NewChanges().Set(column, "x"))
		assert.ErrorIs(t, err, ErrImmutableColumn, column)
	}

	_, err := repo.Update(ctx, types.Where{}, types.NewChanges().Set("name", "x"))
	assert.ErrorIs(t, err, ErrEmptyPredicate)
}

func TestUpdateWithoutChangesReturnsCurrent(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	widgets := seedWidgets(t, repo, 1, "red")

	found, err := repo.Update(ctx, types.Where{"widgetId": widgets[0].WidgetID}, types.NewChanges())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.UpdatedAt.Equal(widgets[0].UpdatedAt))
}

func TestDelete(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	widgets := seedWidgets(t, repo, 3, "red")

	deleted, err := repo.Delete(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	deleted, err = repo.Delete(ctx, widgets[1].WidgetID)
	require.NoError(t, err)
	assert.True(t, deleted)
	n, err = repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	exists, err := repo.Exists(ctx, types.Where{"widgetId": widgets[1].WidgetID})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateManyEmpty(t *testing.T) {
	repo := newWidgetRepo(t)
	created, err := repo.CreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestCreateManyBatchFailsAsWhole(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	dup := uuid.New()

	_, err := repo.CreateMany(ctx, []*widget{
		{WidgetID: dup, Name: "a"},
		{WidgetID: dup, Name: "b"},
	})
	require.Error(t, err)

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunInTxRollsBack(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()

	err := repo.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := repo.CreateWithTx(ctx, tx, &widget{Name: "temp"}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.EqualError(t, err, "abort")

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunInTxCommits(t *testing.T) {
	repo := newWidgetRepo(t)
	ctx := context.Background()
	widgets := seedWidgets(t, repo, 2, "red")

	err := repo.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := repo.CreateManyWithTx(ctx, tx, []*widget{{Name: "x"}, {Name: "y"}}); err != nil {
			return err
		}
		if _, err := repo.UpdateWithTx(ctx, tx, types.Where{"widgetId": widgets[0].WidgetID}, types.NewChanges().Set("name", "renamed")); err != nil {
			return err
		}
		_, err := repo.DeleteWithTx(ctx, tx, widgets[1].WidgetID)
		return err
	})
	require.NoError(t, err)

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	renamed, err := repo.FindOneBy(ctx, types.Where{"name": "renamed"})
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, widgets[0].WidgetID, renamed.WidgetID)
}

func TestTableMetadata(t *testing.T) {
	repo := newWidgetRepo(t)
	assert.Equal(t, "widget", repo.Table().Name)
	require.Len(t, repo.Table().PKs, 1)
	assert.Equal(t, "widgetId", repo.Table().PKs[0].Name)
}

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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/pollbox/internal/dbtest"
	"github.com/tomoncle/pollbox/model"
)

func TestVoteLifecycle(t *testing.T) {
	svc := NewService(NewRepository(dbtest.Open(t, (*model.Vote)(nil))))
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 12; i++ {
		v, err := svc.Cast(ctx)
		require.NoError(t, err)
		assert.False(t, v.CreatedAt.IsZero())
		ids = append(ids, v.VoteID)
	}

	found, err := svc.FindOne(ctx, ids[3])
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ids[3], found.VoteID)

	page, err := svc.Search(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[10], page.Items[0].VoteID)

	deleted, err := svc.Remove(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = svc.Remove(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, deleted)

	missing, err := svc.FindOne(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, missing)
}

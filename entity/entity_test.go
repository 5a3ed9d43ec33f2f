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

package entity

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestNowIsStrictlyIncreasing(t *testing.T) {
	prev := Now()
	for i := 0; i < 1000; i++ {
		next := Now()
		require.True(t, next.After(prev), "tick %d: %s not after %s", i, next, prev)
		assert.Equal(t, time.UTC, next.Location())
		assert.Zero(t, next.Nanosecond()%int(time.Microsecond))
		prev = next
	}
}

func TestNowConcurrentUnique(t *testing.T) {
	const workers, perWorker = 8, 200
	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				v := Now().UnixMicro()
				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*perWorker)
}

func TestTouch(t *testing.T) {
	client := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("insert overwrites both", func(t *testing.T) {
		b := Base{CreatedAt: client, UpdatedAt: client}
		b.Touch(&bun.InsertQuery{})
		assert.NotEqual(t, client, b.CreatedAt)
		assert.Equal(t, b.CreatedAt, b.UpdatedAt)
	})

	t.Run("update only bumps updatedAt", func(t *testing.T) {
		b := Base{}
		b.Touch(&bun.InsertQuery{})
		created := b.CreatedAt
		b.Touch(&bun.UpdateQuery{})
		assert.Equal(t, created, b.CreatedAt)
		assert.True(t, b.UpdatedAt.After(b.CreatedAt))
	})

	t.Run("select leaves values alone", func(t *testing.T) {
		b := Base{CreatedAt: client, UpdatedAt: client}
		b.Touch(&bun.SelectQuery{})
		assert.Equal(t, client, b.CreatedAt)
		assert.Equal(t, client, b.UpdatedAt)
	})
}

func TestIsTimestampColumn(t *testing.T) {
	assert.True(t, IsTimestampColumn(CreatedAtColumn))
	assert.True(t, IsTimestampColumn(UpdatedAtColumn))
	assert.False(t, IsTimestampColumn("question"))
}

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

// Package dbtest opens throwaway in-memory sqlite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/pollbox/database"
	"github.com/uptrace/bun"
)

var seq atomic.Int64

// Open returns a migrated in-memory database holding tables for models, which
// are created in the order given. The database is closed when t finishes.
func Open(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	cfg := &database.Config{Connection: *database.DefaultConnectionConfig()}
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg.Connection.URL = fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	cfg.Connection.HealthCheckInterval = 0

	sqlModels := make([]database.SQLModel, len(models))
	for i, m := range models {
		sqlModels[i] = database.NewModelAdapter(m, i)
	}
	migrate := true
	factory, err := database.Open(context.Background(), cfg, database.OpenOptions{
		Logger:        database.NopLogger(),
		Models:        sqlModels,
		RunMigrations: &migrate,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory.GetDB()
}

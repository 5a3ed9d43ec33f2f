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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/pollbox/database"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://poll:secret@db:5432/polls?sslmode=disable")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("HTTP_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, database.TypePostgres, cfg.Database.Connection.Type)
	assert.Equal(t, "db", cfg.Database.Connection.Host)
	assert.Equal(t, "polls", cfg.Database.Connection.DBName)
	assert.Equal(t, 7, cfg.Database.Connection.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.Connection.MaxIdleConns)
	assert.Equal(t, "development", cfg.Database.Seed.Environment)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: polls-test
http:
  addr: "127.0.0.1:8181"
  shutdown_timeout: 3s
log:
  level: debug
database:
  connection:
    type: sqlite
    dbname: "file:config_test?mode=memory&cache=shared"
  seed:
    filepath: testdata/sql
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "polls-test", cfg.App.Name)
	assert.Equal(t, "127.0.0.1:8181", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, database.TypeSQLite, cfg.Database.Connection.Type)
	assert.Equal(t, "testdata/sql", cfg.Database.Seed.Filepath)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":7000"
database:
  connection:
    url: "sqlite://from-file.db"
`), 0o644))
	t.Setenv("HTTP_ADDR", ":7001")
	t.Setenv("DATABASE_URL", "mysql://root:pw@127.0.0.1:3306/polls")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.HTTP.Addr)
	assert.Equal(t, database.TypeMySQL, cfg.Database.Connection.Type)
	assert.Equal(t, "polls", cfg.Database.Connection.DBName)
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_TYPE", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestUsageListsVariables(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "DATABASE_URL")
	assert.Contains(t, usage, "HTTP_ADDR")
}

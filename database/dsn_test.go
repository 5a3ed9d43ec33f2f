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

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyURL(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		typ    string
		host   string
		port   int
		user   string
		dbName string
	}{
		{"postgres", "postgres://poll:secret@db:5433/polls?sslmode=require", TypePostgres, "db", 5433, "poll", "polls"},
		{"postgresql alias", "postgresql://poll@localhost/polls", TypePostgres, "localhost", 0, "poll", "polls"},
		{"mysql", "mysql://root:pw@127.0.0.1:3306/polls", TypeMySQL, "127.0.0.1", 3306, "root", "polls"},
		{"sqlite relative", "sqlite://data/polls.db", TypeSQLite, "", 0, "", "data/polls.db"},
		{"sqlite absolute", "sqlite:///var/lib/polls.db", TypeSQLite, "", 0, "", "/var/lib/polls.db"},
		{"file uri", "file:polls?mode=memory&cache=shared", TypeSQLite, "", 0, "", "file:polls?mode=memory&cache=shared"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &ConnectionConfig{URL: tc.url}
			require.NoError(t, cfg.ApplyURL())
			assert.Equal(t, tc.typ, cfg.Type)
			assert.Equal(t, tc.host, cfg.Host)
			assert.Equal(t, tc.port, cfg.Port)
			assert.Equal(t, tc.user, cfg.Username)
			assert.Equal(t, tc.dbName, cfg.DBName)
		})
	}
}

func TestApplyURLKeepsSSLModeAndPassword(t *testing.T) {
	cfg := &ConnectionConfig{URL: "postgres://poll:secret@db/polls?sslmode=verify-full"}
	require.NoError(t, cfg.ApplyURL())
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "verify-full", cfg.SSLMode)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&ConnectionConfig{}).Validate())
	assert.Error(t, (&ConnectionConfig{Type: "oracle"}).Validate())
	assert.Error(t, (&ConnectionConfig{URL: "redis://localhost:6379"}).Validate())
	assert.Error(t, (&ConnectionConfig{Type: "sqlite3"}).Validate())

	cfg := &ConnectionConfig{Type: "PostgreSQL", Host: "db"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, TypePostgres, cfg.Type)
}

func TestDSN(t *testing.T) {
	pg := DefaultConnectionConfig()
	pg.Type, pg.Host, pg.Username, pg.Password, pg.DBName = TypePostgres, "db", "poll", "secret", "polls"
	dsn := pg.DSN()
	assert.Contains(t, dsn, "postgres://poll:secret@db:5432/polls?")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "connect_timeout=10")

	my := DefaultConnectionConfig()
	my.Type, my.Host, my.Username, my.Password, my.DBName = TypeMySQL, "db", "root", "pw", "polls"
	dsn = my.DSN()
	assert.Contains(t, dsn, "root:pw@tcp(db:3306)/polls?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	lite := &ConnectionConfig{Type: TypeSQLite, DBName: ":memory:"}
	assert.Equal(t, "file::memory:?cache=shared", lite.DSN())
	lite.DBName = "polls.db"
	assert.Equal(t, "polls.db", lite.DSN())
}

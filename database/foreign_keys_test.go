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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConstraints = []ForeignKeyConstraint{
	{Table: "test_book", Column: "author_id", ReferenceTable: "test_author", ReferenceColumn: "id", OnDelete: "CASCADE"},
	{Table: "test_review", Column: "book_id", ReferenceTable: "test_book", ReferenceColumn: "id", ConstraintName: "fk_review_book"},
}

func TestGenerateConstraintName(t *testing.T) {
	assert.Equal(t, "fk_test_book_author_id", testConstraints[0].GenerateConstraintName())
	assert.Equal(t, "fk_review_book", testConstraints[1].GenerateConstraintName())
}

func TestLoadForeignKeyConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign_keys.yaml")
	content := `foreign_keys:
  - table: poll
    column: ownerUserId
    reference_table: user
    reference_column: userId
    on_delete: NO ACTION
  - table: poll_option
    column: pollId
    reference_table: poll
    reference_column: pollId
    on_delete: CASCADE
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	constraints, err := LoadForeignKeyConfig(path)
	require.NoError(t, err)
	require.Len(t, constraints, 2)
	assert.Equal(t, "ownerUserId", constraints[0].Column)
	assert.Equal(t, "CASCADE", constraints[1].OnDelete)
}

func TestLoadForeignKeyConfigErrors(t *testing.T) {
	_, err := LoadForeignKeyConfig("")
	assert.Error(t, err)

	_, err = LoadForeignKeyConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("foreign_keys: [ {"), 0o644))
	_, err = LoadForeignKeyConfig(bad)
	assert.Error(t, err)
}

func TestExportToConfig(t *testing.T) {
	fkm := NewForeignKeyManager(nil, testConstraints)
	path := filepath.Join(t.TempDir(), "nested", "fk.yaml")
	require.NoError(t, fkm.ExportToConfig(path))

	loaded, err := LoadForeignKeyConfig(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "test_book.author_id -> test_author.id", loaded[0].Description)
	assert.Equal(t, "fk_review_book", loaded[1].ConstraintName)
}

func TestNewForeignKeyManagerFromFileFallsBack(t *testing.T) {
	fkm := NewForeignKeyManagerFromFile(nil, filepath.Join(t.TempDir(), "missing.yaml"), testConstraints)
	assert.Equal(t, testConstraints, fkm.ListAllConstraints())
}

func TestGetConstraintsByTable(t *testing.T) {
	fkm := NewForeignKeyManager(nil, testConstraints)
	assert.Len(t, fkm.GetConstraintsByTable("TEST_BOOK"), 1)
	assert.Empty(t, fkm.GetConstraintsByTable("test_author"))
}

func TestValidateConstraints(t *testing.T) {
	assert.Empty(t, NewForeignKeyManager(nil, testConstraints).ValidateConstraints())

	fkm := NewForeignKeyManager(nil, []ForeignKeyConstraint{
		{Table: "poll", Column: "ownerUserId", ReferenceTable: "user", ReferenceColumn: "userId", OnDelete: "DROP"},
		{Table: "", Column: "", ReferenceTable: "", ReferenceColumn: "", OnUpdate: "set null"},
	})
	errs := fkm.ValidateConstraints()
	assert.Len(t, errs, 5)
}

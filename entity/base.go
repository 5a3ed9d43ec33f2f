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
	"time"

	"github.com/uptrace/bun"
)

const (
	CreatedAtColumn = "createdAt"
	UpdatedAtColumn = "updatedAt"
)

// Base holds the timestamp columns shared by all record types. Values are
// written by Touch during INSERT/UPDATE; anything a caller puts there is
// overwritten.
type Base struct {
	CreatedAt time.Time `bun:"createdAt,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updatedAt,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Touch stamps the timestamps for the given query. Record types call it from
// their bun.BeforeAppendModelHook.
func (b *Base) Touch(query bun.Query) {
	switch query.(type) {
	case *bun.InsertQuery:
		now := Now()
		b.CreatedAt = now
		b.UpdatedAt = now
	case *bun.UpdateQuery:
		b.UpdatedAt = Now()
	}
}

// IsTimestampColumn reports whether column is managed by Base.
func IsTimestampColumn(column string) bool {
	return column == CreatedAtColumn || column == UpdatedAtColumn
}

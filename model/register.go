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

package model

import "github.com/tomoncle/pollbox/database"

// Column names shared by repositories and services.
const (
	ColumnUserID      = "userId"
	ColumnEmail       = "email"
	ColumnName        = "name"
	ColumnPollID      = "pollId"
	ColumnQuestion    = "question"
	ColumnStartDate   = "startDate"
	ColumnEndDate     = "endDate"
	ColumnVisibility  = "visibility"
	ColumnOwnerUserID = "ownerUserId"
	ColumnOptionID    = "optionId"
	ColumnVoteID      = "voteId"
	ColumnPassword    = "password"
)

// Models returns the record types in table creation order.
func Models() []database.SQLModel {
	return []database.SQLModel{
		database.NewModelAdapter((*User)(nil), 10),
		database.NewModelAdapter((*Poll)(nil), 20),
		database.NewModelAdapter((*PollOption)(nil), 30),
		database.NewModelAdapter((*Vote)(nil), 40),
	}
}

// ForeignKeys returns the default constraints, used when no foreign key
// file is configured.
func ForeignKeys() []database.ForeignKeyConstraint {
	return []database.ForeignKeyConstraint{
		{
			Table:           "poll",
			Column:          ColumnOwnerUserID,
			ReferenceTable:  "user",
			ReferenceColumn: ColumnUserID,
			OnDelete:        "NO ACTION",
			OnUpdate:        "NO ACTION",
			ConstraintName:  "fk_poll_owner",
		},
		{
			Table:           "poll_option",
			Column:          ColumnPollID,
			ReferenceTable:  "poll",
			ReferenceColumn: ColumnPollID,
			OnDelete:        "CASCADE",
			ConstraintName:  "fk_poll_option_poll",
		},
	}
}

// Ptr returns a pointer to v, for filling the Fields structs.
func Ptr[T any](v T) *T {
	return &v
}

// Instances returns Models as bare instances, in the same order.
func Instances() []any {
	models := Models()
	out := make([]any, len(models))
	for i, m := range models {
		out[i] = m.Instance()
	}
	return out
}

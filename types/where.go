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

package types

import "sort"

// Where is an equality predicate: every column must equal its value.
// An empty Where matches all rows.
type Where map[string]any

// Columns returns the predicate's columns in a stable order.
func (w Where) Columns() []string {
	cols := make([]string, 0, len(w))
	for c := range w {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Changes is an ordered set of column assignments for a partial update.
type Changes struct {
	columns []string
	values  map[string]any
}

// NewChanges returns an empty change set.
func NewChanges() *Changes {
	return &Changes{values: make(map[string]any)}
}

// Set assigns value to column, replacing an earlier assignment.
func (c *Changes) Set(column string, value any) *Changes {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, ok := c.values[column]; !ok {
		c.columns = append(c.columns, column)
	}
	c.values[column] = value
	return c
}

// Get returns the value assigned to column.
func (c *Changes) Get(column string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[column]
	return v, ok
}

// Columns returns assigned columns in assignment order.
func (c *Changes) Columns() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

func (c *Changes) Len() int {
	if c == nil {
		return 0
	}
	return len(c.columns)
}

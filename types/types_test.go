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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, DefaultPageSize, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewDefaultPageRequest(3, 10)
	assert.Equal(t, 20, p.GetOffset())
}

func TestPageRequestClampsHugePage(t *testing.T) {
	p := NewDefaultPageRequest(math.MaxInt, 10)
	assert.Equal(t, math.MaxInt/10, p.GetPage())
	assert.Positive(t, p.GetOffset())
	assert.Equal(t, (math.MaxInt/10-1)*10, p.GetOffset())
}

type testColor string

func (c testColor) String() string { return string(c) }
func (c testColor) IsValid() bool  { return c.Number() >= 0 }
func (c testColor) Number() int {
	switch c {
	case "red":
		return 1
	case "blue":
		return 0
	}
	return -1
}

func TestParseEnum(t *testing.T) {
	values := []testColor{"red", "blue", "bogus"}
	c, err := ParseEnum("red", values...)
	require.NoError(t, err)
	assert.Equal(t, testColor("red"), c)

	_, err = ParseEnum("bogus", values...)
	require.ErrorIs(t, err, ErrUnknownEnum)
	assert.Contains(t, err.Error(), "blue, red")
	assert.Equal(t, []string{"blue", "red"}, EnumNames(values...))
}

func TestPaginationLastPage(t *testing.T) {
	cases := []struct {
		total, lastPage int
	}{
		{0, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
		{30, 3},
	}
	for _, tc := range cases {
		p := NewDefaultPagination[int](1, DefaultPageSize)
		p.SetTotal(tc.total)
		assert.Equal(t, tc.lastPage, p.LastPage, "total=%d", tc.total)
	}
}

func TestMapPagination(t *testing.T) {
	a, b := 1, 2
	p := &Pagination[int]{Items: []*int{&a, &b}, Total: 12, Page: 2, PageSize: 10, LastPage: 2}
	out := MapPagination(p, func(v *int) *string {
		s := string(rune('a' + *v))
		return &s
	})
	assert.Equal(t, 12, out.Total)
	assert.Equal(t, 2, out.LastPage)
	assert.Equal(t, "b", *out.Items[0])
	assert.Equal(t, "c", *out.Items[1])
}

func TestWhereColumnsSorted(t *testing.T) {
	w := Where{"visibility": "public", "question": "q", "ownerUserId": 1}
	assert.Equal(t, []string{"ownerUserId", "question", "visibility"}, w.Columns())
}

func TestChangesKeepsAssignmentOrder(t *testing.T) {
	c := NewChanges().Set("b", 1).Set("a", 2).Set("b", 3)
	assert.Equal(t, []string{"b", "a"}, c.Columns())
	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, c.Len())

	var nilChanges *Changes
	assert.Zero(t, nilChanges.Len())
	assert.Nil(t, nilChanges.Columns())
}

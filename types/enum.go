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
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownEnum is returned when a name matches no member of an enum.
var ErrUnknownEnum = errors.New("unknown enum value")

// BaseEnum is a closed set of values persisted by name. Number is the
// ordinal of a valid member and -1 otherwise.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
}

// ParseEnum returns the member of values named s.
func ParseEnum[E BaseEnum](s string, values ...E) (E, error) {
	for _, v := range values {
		if v.IsValid() && v.String() == s {
			return v, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("%w %q, expected one of %s", ErrUnknownEnum, s, strings.Join(EnumNames(values...), ", "))
}

// EnumNames lists the names of the valid values in ordinal order.
func EnumNames[E BaseEnum](values ...E) []string {
	valid := make([]E, 0, len(values))
	for _, v := range values {
		if v.IsValid() {
			valid = append(valid, v)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Number() < valid[j].Number() })
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = v.String()
	}
	return names
}

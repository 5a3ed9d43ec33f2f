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

import (
	"github.com/tomoncle/pollbox/types"
)

// Visibility controls who may see a poll.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

var _ types.BaseEnum = VisibilityPublic

// visibilities in ordinal order.
var visibilities = []Visibility{VisibilityPublic, VisibilityPrivate}

func (v Visibility) String() string { return string(v) }

// Number is the ordinal of v, or -1 when v is unknown.
func (v Visibility) Number() int {
	for i, known := range visibilities {
		if v == known {
			return i
		}
	}
	return -1
}

func (v Visibility) IsValid() bool { return v.Number() >= 0 }

// Visibilities returns every visibility in ordinal order.
func Visibilities() []Visibility {
	return append([]Visibility(nil), visibilities...)
}

// VisibilityNames returns the accepted visibility names.
func VisibilityNames() []string {
	return types.EnumNames(visibilities...)
}

// ParseVisibility returns the Visibility named s.
func ParseVisibility(s string) (Visibility, error) {
	return types.ParseEnum(s, visibilities...)
}

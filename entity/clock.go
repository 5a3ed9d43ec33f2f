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
	"sync/atomic"
	"time"
)

var lastTick atomic.Int64

// Now returns the current UTC time truncated to microseconds. Successive
// calls never return the same or an earlier instant, so rows stamped in a
// tight loop keep their insertion order even on databases that store
// microsecond precision.
func Now() time.Time {
	for {
		now := time.Now().UTC().Truncate(time.Microsecond).UnixMicro()
		last := lastTick.Load()
		if now <= last {
			now = last + 1
		}
		if lastTick.CompareAndSwap(last, now) {
			return time.UnixMicro(now).UTC()
		}
	}
}

// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package weights

import (
	"errors"
	"fmt"
)

// Direction selects which way a calendar adjustment is applied.
type Direction int

const (
	Forward Direction = iota
	Back
)

var ErrInvalidDirection = errors.New("direction must be one of 'forward' or 'back'")

// ParseDirection maps the symbolic direction names to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward":
		return Forward, nil
	case "back":
		return Back, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidDirection, s)
}

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "back"
}

// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routing

import (
	"maps"
	"math"
	"slices"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// Param describes one tunable coefficient of an algorithm.
type Param struct {
	Value *float64
	// Min and Max bound the accepted values, both inclusive.
	Min, Max float64
	// Integer parameters reject fractional values.
	Integer bool
}

// ParamSet is a named set of coefficients.
type ParamSet map[string]Param

// Values returns a copy of the current values.
func (ps ParamSet) Values() map[string]float64 {
	res := make(map[string]float64, len(ps))
	for k, p := range ps {
		res[k] = *p.Value
	}
	return res
}

// Apply validates every value of the update and only then assigns them.
func (ps ParamSet) Apply(update map[string]float64) error {
	for _, k := range slices.Sorted(maps.Keys(update)) {
		v := update[k]
		p, ok := ps[k]
		if !ok {
			return serrors.JoinNoStack(ErrInvalidParam, nil, "param", k, "reason", "unknown")
		}
		if math.IsNaN(v) || v < p.Min || v > p.Max {
			return serrors.JoinNoStack(ErrInvalidParam, nil, "param", k, "value", v,
				"min", p.Min, "max", p.Max)
		}
		if p.Integer && v != math.Trunc(v) {
			return serrors.JoinNoStack(ErrInvalidParam, nil, "param", k, "value", v,
				"reason", "not an integer")
		}
	}
	for k, v := range update {
		*ps[k].Value = v
	}
	return nil
}

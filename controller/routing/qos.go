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
	"slices"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// Default service types.
const (
	TypeVideo = "VIDEO"
	TypeFTP   = "FTP"
	TypeHTML  = "HTML"
)

// QoSClass is a service type with its bandwidth floor in bit/s.
type QoSClass struct {
	Type  string
	Floor float64
}

// QoSTable maps service types to bandwidth floors.
type QoSTable struct {
	floors map[string]float64
	def    string
}

// DefaultQoSTable returns the table VIDEO 10 Mbit/s, FTP 5 Mbit/s and
// HTML 1 Mbit/s with HTML as default type.
func DefaultQoSTable() *QoSTable {
	t, _ := NewQoSTable(map[string]float64{
		TypeVideo: 10e6,
		TypeFTP:   5e6,
		TypeHTML:  1e6,
	}, TypeHTML)
	return t
}

// NewQoSTable creates a table. The default type must be part of the floors.
func NewQoSTable(floors map[string]float64, def string) (*QoSTable, error) {
	if _, ok := floors[def]; !ok {
		return nil, serrors.New("default service type without floor", "type", def)
	}
	for typ, f := range floors {
		if f < 0 {
			return nil, serrors.New("negative bandwidth floor", "type", typ, "floor", f)
		}
	}
	return &QoSTable{floors: maps.Clone(floors), def: def}, nil
}

// Class returns the class of the type. Unknown types map to the default class.
func (t *QoSTable) Class(typ string) QoSClass {
	if f, ok := t.floors[typ]; ok {
		return QoSClass{Type: typ, Floor: f}
	}
	return t.Default()
}

// Known reports whether the type has an entry.
func (t *QoSTable) Known(typ string) bool {
	_, ok := t.floors[typ]
	return ok
}

// Default returns the class used for unclassified destinations.
func (t *QoSTable) Default() QoSClass {
	return QoSClass{Type: t.def, Floor: t.floors[t.def]}
}

// Types returns the known types in lexical order.
func (t *QoSTable) Types() []string {
	return slices.Sorted(maps.Keys(t.floors))
}

// Copyright 2025 gridlab LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package geodesy

// 📐 Offset is an approximate planar shift between two coordinate systems
type Offset struct {
	DX float64 // easting shift, in the units of the pair
	DY float64 // northing shift, in the units of the pair
}

// 🗃️ OffsetTable holds known approximate shifts keyed by (src, dst) EPSG pair
type OffsetTable struct {
	entries map[[2]int]Offset
}

// 🏭 NewOffsetTable creates an empty table
func NewOffsetTable() *OffsetTable {
	return &OffsetTable{entries: make(map[[2]int]Offset)}
}

// DefaultOffsetTable returns the built-in table. Entries are conservative
// NAD27 to NAD83 shifts for the Oklahoma South zone, in US survey feet.
func DefaultOffsetTable() *OffsetTable {
	t := NewOffsetTable()
	t.Put(32025, 32104, Offset{DX: 2.5, DY: -2.5})
	t.Put(32025, 2268, Offset{DX: 2.5, DY: -2.5})
	return t
}

// Put registers a shift for a pair and its inverse for the reverse pair
func (t *OffsetTable) Put(src, dst int, off Offset) {
	t.entries[[2]int{src, dst}] = off
	t.entries[[2]int{dst, src}] = Offset{DX: -off.DX, DY: -off.DY}
}

// Lookup returns the shift for a pair, if one is known
func (t *OffsetTable) Lookup(src, dst int) (Offset, bool) {
	off, ok := t.entries[[2]int{src, dst}]
	return off, ok
}

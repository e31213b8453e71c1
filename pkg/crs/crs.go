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

package crs

import (
	"fmt"
)

// 🗺️ Identifier names a single coordinate reference system by authority code
type Identifier struct {
	Code int    // EPSG authority code (e.g. 32025)
	Name string // Human-readable name (e.g. "NAD27 Oklahoma South")
}

// 🏭 New creates an identifier from an EPSG code and name
func New(code int, name string) Identifier {
	return Identifier{Code: code, Name: name}
}

// Equal reports whether two identifiers name the same CRS.
// Names are descriptive only, equality is by authority code.
func (id Identifier) Equal(other Identifier) bool {
	return id.Code == other.Code
}

// IsZero reports whether the identifier is unset
func (id Identifier) IsZero() bool {
	return id.Code == 0
}

// 📝 String returns the display form, e.g. "EPSG:32025 - NAD27 Oklahoma South"
func (id Identifier) String() string {
	if id.Name == "" {
		return fmt.Sprintf("EPSG:%d", id.Code)
	}
	return fmt.Sprintf("EPSG:%d - %s", id.Code, id.Name)
}

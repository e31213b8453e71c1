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
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned by Lookup for codes absent from the catalog
var ErrNotFound = errors.Base("crs not found in catalog")

// 📚 Catalog resolves and searches CRS identifiers
type Catalog interface {
	// Lookup returns the identifier for an EPSG code
	Lookup(code int) (Identifier, error)
	// Search returns identifiers whose code or name matches the query text
	Search(text string) []Identifier
}

// 🔧 BuiltinCatalog is an in-memory catalog seeded with the systems that
// seismic grid data is commonly delivered in
type BuiltinCatalog struct {
	byCode map[int]Identifier
}

// 🏭 NewBuiltinCatalog creates a catalog with the built-in entries
func NewBuiltinCatalog() *BuiltinCatalog {
	c := &BuiltinCatalog{byCode: make(map[int]Identifier, len(builtinEntries))}
	for _, id := range builtinEntries {
		c.byCode[id.Code] = id
	}
	return c
}

// Lookup implements Catalog
func (c *BuiltinCatalog) Lookup(code int) (Identifier, error) {
	id, ok := c.byCode[code]
	if !ok {
		return Identifier{}, errors.Errorf("looking up EPSG:%d: %w", code, ErrNotFound)
	}
	return id, nil
}

// Search implements Catalog. Matching is case-insensitive over both the
// numeric code and the name, results sorted by code.
func (c *BuiltinCatalog) Search(text string) []Identifier {
	query := strings.ToLower(strings.TrimSpace(text))

	var matches []Identifier
	for _, id := range c.byCode {
		if query == "" ||
			strings.Contains(strconv.Itoa(id.Code), query) ||
			strings.Contains(strings.ToLower(id.Name), query) {
			matches = append(matches, id)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Code < matches[j].Code
	})
	return matches
}

// Built-in entries cover the geographic systems, the NAD27/NAD83 state plane
// zones, and the UTM zones seen in field data deliveries.
var builtinEntries = []Identifier{
	{Code: 4267, Name: "NAD27"},
	{Code: 4269, Name: "NAD83"},
	{Code: 4326, Name: "WGS 84"},
	{Code: 2268, Name: "NAD83 / Oklahoma South (ftUS)"},
	{Code: 32024, Name: "NAD27 / Oklahoma North"},
	{Code: 32025, Name: "NAD27 / Oklahoma South"},
	{Code: 32103, Name: "NAD83 / Oklahoma North"},
	{Code: 32104, Name: "NAD83 / Oklahoma South"},
	{Code: 26913, Name: "NAD83 / UTM zone 13N"},
	{Code: 26914, Name: "NAD83 / UTM zone 14N"},
	{Code: 26915, Name: "NAD83 / UTM zone 15N"},
	{Code: 32613, Name: "WGS 84 / UTM zone 13N"},
	{Code: 32614, Name: "WGS 84 / UTM zone 14N"},
	{Code: 32615, Name: "WGS 84 / UTM zone 15N"},
	{Code: 3857, Name: "WGS 84 / Pseudo-Mercator"},
}

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

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/gridlab/gridshift/pkg/crs"
)

// 📊 Method identifies which tier produced a transformed point
type Method int

const (
	MethodPrimary  Method = iota // Full datum-aware engine transformation
	MethodFallback               // Approximate planar shift or passthrough
)

// String returns a string representation of Method
func (m Method) String() string {
	switch m {
	case MethodPrimary:
		return "primary"
	case MethodFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// 🎯 Result is the outcome of transforming a single point
type Result struct {
	X      float64 // Transformed easting/longitude
	Y      float64 // Transformed northing/latitude
	Method Method  // Tier that served the point
}

// ErrNoTransform is returned in strict mode when neither tier can serve a pair
var ErrNoTransform = errors.Base("no transform available for pair")

// 🔧 TransformerOptions configures a Transformer
type TransformerOptions struct {
	// Engine is the primary geodetic capability. May be nil when the engine
	// is unavailable in the environment.
	Engine Engine
	// Offsets is the fallback shift table. Defaults to DefaultOffsetTable.
	Offsets *OffsetTable
	// Strict refuses identity passthrough when no offset entry exists,
	// producing a failed point instead of an untransformed one.
	Strict bool
}

// 🔄 Transformer applies the primary-then-fallback transformation strategy.
// Safe for concurrent use as long as the engine is.
type Transformer struct {
	engine  Engine
	offsets *OffsetTable
	strict  bool
}

// 🏭 NewTransformer creates a transformer with the given options
func NewTransformer(opts TransformerOptions) *Transformer {
	offsets := opts.Offsets
	if offsets == nil {
		offsets = DefaultOffsetTable()
	}
	return &Transformer{
		engine:  opts.Engine,
		offsets: offsets,
		strict:  opts.Strict,
	}
}

// Transform converts one point from src to dst. Auxiliary record fields are
// never passed through here, only the coordinate pair.
func (t *Transformer) Transform(ctx context.Context, x, y float64, src, dst crs.Identifier) (Result, error) {
	// Identity short-circuit, no engine call
	if src.Equal(dst) {
		return Result{X: x, Y: y, Method: MethodPrimary}, nil
	}

	logger := zerolog.Ctx(ctx)

	// Primary tier
	if t.engine != nil {
		tx, ty, err := t.engine.Project(ctx, x, y, src, dst)
		if err == nil {
			return Result{X: tx, Y: ty, Method: MethodPrimary}, nil
		}
		logger.Debug().
			Err(err).
			Int("src", src.Code).
			Int("dst", dst.Code).
			Msg("primary engine failed, using fallback")
	}

	// Fallback tier
	if off, ok := t.offsets.Lookup(src.Code, dst.Code); ok {
		return Result{X: x + off.DX, Y: y + off.DY, Method: MethodFallback}, nil
	}

	if t.strict {
		return Result{}, errors.Errorf("transforming EPSG:%d -> EPSG:%d: %w", src.Code, dst.Code, ErrNoTransform)
	}

	logger.Warn().
		Int("src", src.Code).
		Int("dst", dst.Code).
		Msg("no offset entry for pair, passing coordinates through untransformed")
	return Result{X: x, Y: y, Method: MethodFallback}, nil
}

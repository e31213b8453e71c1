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
	"math"

	"github.com/wroge/wgs84"
	"gitlab.com/tozd/go/errors"

	"github.com/gridlab/gridshift/pkg/crs"
)

// 🌍 Engine is the primary geodetic capability. Implementations must be safe
// for concurrent invocation.
type Engine interface {
	// Project converts a single point from src to dst, datum-aware
	Project(ctx context.Context, x, y float64, src, dst crs.Identifier) (float64, float64, error)
}

// 🔧 WGS84Engine adapts the wroge/wgs84 EPSG repository to the Engine
// capability
type WGS84Engine struct {
	repo *wgs84.Repository
}

// 🏭 NewWGS84Engine creates the default primary engine
func NewWGS84Engine() *WGS84Engine {
	return &WGS84Engine{repo: wgs84.EPSG()}
}

// Project implements Engine
func (e *WGS84Engine) Project(ctx context.Context, x, y float64, src, dst crs.Identifier) (float64, float64, error) {
	from := e.repo.Code(src.Code)
	if from == nil {
		return 0, 0, errors.Errorf("source EPSG:%d not supported by engine", src.Code)
	}
	to := e.repo.Code(dst.Code)
	if to == nil {
		return 0, 0, errors.Errorf("target EPSG:%d not supported by engine", dst.Code)
	}

	tx, ty, _ := wgs84.Transform(from, to)(x, y, 0)
	if math.IsNaN(tx) || math.IsNaN(ty) || math.IsInf(tx, 0) || math.IsInf(ty, 0) {
		return 0, 0, errors.Errorf("engine produced a non-finite result for EPSG:%d -> EPSG:%d", src.Code, dst.Code)
	}

	return tx, ty, nil
}

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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/gridlab/gridshift/pkg/crs"
)

var (
	nad27South = crs.New(32025, "NAD27 / Oklahoma South")
	nad83South = crs.New(32104, "NAD83 / Oklahoma South")
)

// 🔧 MockEngine is a mock implementation of the Engine interface
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Project(ctx context.Context, x, y float64, src, dst crs.Identifier) (float64, float64, error) {
	result := m.Called(ctx, x, y, src, dst)
	return result.Get(0).(float64), result.Get(1).(float64), result.Error(2)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestTransformIdentityShortCircuit(t *testing.T) {
	engine := &MockEngine{}
	tr := NewTransformer(TransformerOptions{Engine: engine})

	res, err := tr.Transform(testContext(t), 2069796.95394, 641202.17144, nad27South, nad27South)
	require.NoError(t, err, "identity transform should succeed")

	assert.Equal(t, 2069796.95394, res.X, "X should be unchanged")
	assert.Equal(t, 641202.17144, res.Y, "Y should be unchanged")
	assert.Equal(t, MethodPrimary, res.Method, "identity counts as primary")
	engine.AssertNotCalled(t, "Project", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransformPrimaryEngine(t *testing.T) {
	engine := &MockEngine{}
	engine.On("Project", mock.Anything, 100.0, 200.0, nad27South, nad83South).
		Return(102.5, 197.5, nil)

	tr := NewTransformer(TransformerOptions{Engine: engine})
	res, err := tr.Transform(testContext(t), 100.0, 200.0, nad27South, nad83South)
	require.NoError(t, err)

	assert.Equal(t, MethodPrimary, res.Method, "engine success should report primary")
	assert.Equal(t, 102.5, res.X)
	assert.Equal(t, 197.5, res.Y)
	engine.AssertExpectations(t)
}

func TestTransformFallbackOnEngineFailure(t *testing.T) {
	engine := &MockEngine{}
	engine.On("Project", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0.0, 0.0, errors.New("engine unavailable"))

	tr := NewTransformer(TransformerOptions{Engine: engine})
	res, err := tr.Transform(testContext(t), 100.0, 200.0, nad27South, nad83South)
	require.NoError(t, err, "engine failure should degrade, not fail")

	assert.Equal(t, MethodFallback, res.Method, "engine failure should report fallback")
	assert.InDelta(t, 102.5, res.X, 1e-9, "X should carry the table shift")
	assert.InDelta(t, 197.5, res.Y, 1e-9, "Y should carry the table shift")
}

func TestTransformNilEngineUsesFallback(t *testing.T) {
	tr := NewTransformer(TransformerOptions{})

	res, err := tr.Transform(testContext(t), 100.0, 200.0, nad27South, nad83South)
	require.NoError(t, err)
	assert.Equal(t, MethodFallback, res.Method)
	assert.InDelta(t, 102.5, res.X, 1e-9)
}

func TestTransformPassthroughWithoutTableEntry(t *testing.T) {
	unknownSrc := crs.New(26913, "NAD83 / UTM zone 13N")
	unknownDst := crs.New(32615, "WGS 84 / UTM zone 15N")

	tr := NewTransformer(TransformerOptions{})
	res, err := tr.Transform(testContext(t), 500000.0, 4000000.0, unknownSrc, unknownDst)
	require.NoError(t, err, "passthrough is allowed by default")

	assert.Equal(t, MethodFallback, res.Method, "passthrough still reports fallback")
	assert.Equal(t, 500000.0, res.X, "X should be untouched")
	assert.Equal(t, 4000000.0, res.Y, "Y should be untouched")
}

func TestTransformStrictRefusesPassthrough(t *testing.T) {
	unknownSrc := crs.New(26913, "NAD83 / UTM zone 13N")
	unknownDst := crs.New(32615, "WGS 84 / UTM zone 15N")

	tr := NewTransformer(TransformerOptions{Strict: true})
	_, err := tr.Transform(testContext(t), 500000.0, 4000000.0, unknownSrc, unknownDst)
	require.Error(t, err, "strict mode should refuse passthrough")
	assert.True(t, errors.Is(err, ErrNoTransform), "error should wrap ErrNoTransform")
}

// 🔁 shiftEngine is a lossless engine used for round-trip checks
type shiftEngine struct{}

func (shiftEngine) Project(ctx context.Context, x, y float64, src, dst crs.Identifier) (float64, float64, error) {
	if src.Code == 32025 && dst.Code == 32104 {
		return x + 10, y - 20, nil
	}
	if src.Code == 32104 && dst.Code == 32025 {
		return x - 10, y + 20, nil
	}
	return 0, 0, errors.Errorf("unsupported pair")
}

func TestTransformRoundTrip(t *testing.T) {
	tr := NewTransformer(TransformerOptions{Engine: shiftEngine{}})
	ctx := testContext(t)

	const epsilon = 1e-6
	x0, y0 := 2070376.44, 658741.74

	there, err := tr.Transform(ctx, x0, y0, nad27South, nad83South)
	require.NoError(t, err)
	require.Equal(t, MethodPrimary, there.Method, "round-trip property only holds for primary legs")

	back, err := tr.Transform(ctx, there.X, there.Y, nad83South, nad27South)
	require.NoError(t, err)
	require.Equal(t, MethodPrimary, back.Method)

	assert.InDelta(t, x0, back.X, epsilon, "round-trip should reproduce X")
	assert.InDelta(t, y0, back.Y, epsilon, "round-trip should reproduce Y")
}

func TestOffsetTableInverse(t *testing.T) {
	table := NewOffsetTable()
	table.Put(1000, 2000, Offset{DX: 3.0, DY: -4.0})

	forward, ok := table.Lookup(1000, 2000)
	require.True(t, ok)
	assert.Equal(t, Offset{DX: 3.0, DY: -4.0}, forward)

	inverse, ok := table.Lookup(2000, 1000)
	require.True(t, ok, "Put should register the inverse pair")
	assert.Equal(t, Offset{DX: -3.0, DY: 4.0}, inverse)
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "primary", MethodPrimary.String())
	assert.Equal(t, "fallback", MethodFallback.String())
	assert.Equal(t, "unknown", Method(99).String())
}

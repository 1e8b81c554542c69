package meshlevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/grbltok/coord"
	"github.com/mastercactapus/grbltok/machine"
)

func TestFacet(t *testing.T) {
	f := facet{
		a: coord.Point{X: 0, Y: 0, Z: 0},
		b: coord.Point{X: 10, Y: 0, Z: 0},
		c: coord.Point{X: 5, Y: 5, Z: 5},
	}

	assert.True(t, f.contains(0, 0))
	assert.True(t, f.contains(5, 0))
	assert.True(t, f.contains(5, 2))
	assert.False(t, f.contains(0, 5))
	assert.False(t, f.contains(5, -1))

	assert.InDelta(t, 0.0, f.z(0, 0), 1e-9)
	assert.InDelta(t, 0.0, f.z(5, 0), 1e-9)
	assert.InDelta(t, 5.0, f.z(5, 5), 1e-9)
	assert.InDelta(t, 2.5, f.z(2.5, 2.5), 1e-9)

	flat := facet{
		a: coord.Point{X: 0, Y: 0},
		b: coord.Point{X: 1, Y: 1},
		c: coord.Point{X: 2, Y: 2},
	}
	assert.False(t, flat.contains(1, 1))
}

func TestMesh(t *testing.T) {
	_, err := NewMesh([]coord.Point{{}, {X: 1}})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	// plane z = x/10 + y/20
	m, err := NewMesh([]coord.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 1},
		{X: 0, Y: 10, Z: 0.5},
		{X: 10, Y: 10, Z: 1.5},
	})
	require.NoError(t, err)

	check := func(x, y float64) {
		t.Helper()
		ok, z := m.OffsetZ(x, y)
		require.True(t, ok, "%g,%g", x, y)
		assert.InDelta(t, x/10+y/20, z, 1e-9, "%g,%g", x, y)
	}
	check(0, 0)
	check(10, 10)
	check(5, 5)
	check(2, 7)
	check(9, 1)

	ok, _ := m.OffsetZ(11, 5)
	assert.False(t, ok)
	ok, _ = m.OffsetZ(5, -3)
	assert.False(t, ok)
}

func TestFromProbes(t *testing.T) {
	probes := []machine.ProbeResult{
		{Point: coord.Point{X: 0, Y: 0, Z: -1}, Valid: true},
		{Point: coord.Point{X: 99, Y: 99, Z: 99}},
		{Point: coord.Point{X: 10, Y: 0, Z: -1}, Valid: true},
		{Point: coord.Point{X: 0, Y: 10, Z: -1}, Valid: true},
	}
	assert.Len(t, Points(probes), 3)

	m, err := FromProbes(probes)
	require.NoError(t, err)
	ok, z := m.OffsetZ(2, 2)
	assert.True(t, ok)
	assert.InDelta(t, -1.0, z, 1e-9)

	ok, _ = m.OffsetZ(50, 50)
	assert.False(t, ok)

	_, err = FromProbes(probes[1:2])
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestOffsetFrom(t *testing.T) {
	pts := []coord.Point{{X: 1, Z: -1.5}, {X: 2, Z: -1}}
	res := OffsetFrom(-1.5, pts)
	assert.Equal(t, []coord.Point{{X: 1, Z: 0}, {X: 2, Z: 0.5}}, res)
	assert.Equal(t, -1.5, pts[0].Z)
}

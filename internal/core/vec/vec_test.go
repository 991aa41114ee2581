package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNorm(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"unit x", New(5, 0), New(1, 0)},
		{"unit y", New(0, -3), New(0, -1)},
		{"diagonal", New(3, 4), New(0.6, 0.8)},
		{"zero stays zero", Vec2{}, Vec2{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Norm()
			assert.InDelta(t, tc.want.X, got.X, 1e-12)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-12)
			assert.True(t, got.IsFinite())
		})
	}
}

func TestDist(t *testing.T) {
	a := New(1, 2)
	b := New(4, 6)
	assert.InDelta(t, 5.0, a.Dist(b), 1e-12)
	assert.InDelta(t, 25.0, a.DistSq(b), 1e-12)
	assert.InDelta(t, 0.0, a.Dist(a), 1e-12)
}

func TestFromAngle(t *testing.T) {
	right := FromAngle(0)
	assert.InDelta(t, 1, right.X, 1e-12)
	assert.InDelta(t, 0, right.Y, 1e-12)

	up := FromAngle(math.Pi / 2)
	assert.InDelta(t, 0, up.X, 1e-12)
	assert.InDelta(t, 1, up.Y, 1e-12)

	// FromAngle always yields a unit vector.
	for rad := 0.0; rad < 2*math.Pi; rad += 0.37 {
		assert.InDelta(t, 1.0, FromAngle(rad).Len(), 1e-12)
	}
}

func TestArithmetic(t *testing.T) {
	a := New(2, -1)
	b := New(-3, 5)
	assert.Equal(t, New(-1, 4), a.Add(b))
	assert.Equal(t, New(5, -6), a.Sub(b))
	assert.Equal(t, New(4, -2), a.Scale(2))
	assert.InDelta(t, -11.0, a.Dot(b), 1e-12)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, New(0, 0).IsFinite())
	assert.False(t, New(math.NaN(), 0).IsFinite())
	assert.False(t, New(0, math.Inf(1)).IsFinite())
	assert.False(t, New(math.Inf(-1), math.NaN()).IsFinite())
}

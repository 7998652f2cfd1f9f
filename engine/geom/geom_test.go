package geom

import (
	"math"
	"testing"
)

func TestChangeTo(t *testing.T) {
	cases := []struct {
		from, to Direction
		want     DirectionChange
	}{
		{North, North, ChangeNone},
		{North, East, ChangeTurnRight},
		{West, North, ChangeTurnRight},
		{North, West, ChangeTurnLeft},
		{East, North, ChangeTurnLeft},
		{North, South, ChangeTurnAround},
		{East, West, ChangeTurnAround},
	}
	for _, c := range cases {
		if got := c.from.ChangeTo(c.to); got != c.want {
			t.Errorf("%v -> %v: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestHalfVectorMatchesOffset(t *testing.T) {
	for d := North; d < DirectionCount; d++ {
		dx, dy := d.Offset()
		hv := d.HalfVector()
		if hv.X != float64(dx)*0.5 || hv.Y != float64(dy)*0.5 {
			t.Fatalf("%v: half vector %v disagrees with offset (%d,%d)", d, hv, dx, dy)
		}
		if d.Opposite().Opposite() != d {
			t.Fatalf("%v: opposite is not an involution", d)
		}
	}
}

func TestForwardAndRightFollowHeading(t *testing.T) {
	const eps = 1e-9
	for d := North; d < DirectionCount; d++ {
		f := Forward(d.Angle())
		want := d.HalfVector().Scale(2)
		if !f.ApproxEqual(want, eps) {
			t.Fatalf("%v: forward %v, want %v", d, f, want)
		}
		r := Right(d.Angle())
		wantRight := ((d + 1) % DirectionCount).HalfVector().Scale(2)
		if !r.ApproxEqual(wantRight, eps) {
			t.Fatalf("%v: right %v, want %v", d, r, wantRight)
		}
	}
}

func TestLerp(t *testing.T) {
	a, b := V2(0, 0), V2(2, 4)
	if got := a.Lerp(b, 0.5); got != V2(1, 2) {
		t.Fatalf("lerp midpoint = %v", got)
	}
	if got := a.Dist(b); math.Abs(got-math.Sqrt(20)) > 1e-12 {
		t.Fatalf("dist = %v", got)
	}
}

package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Curve maps linear progress in [0,1] to eased progress.
type Curve interface {
	At(p float64) float64
}

type linearCurve struct{}

func (linearCurve) At(p float64) float64 { return p }

type stepsCurve struct{ n int }

func (c stepsCurve) At(p float64) float64 {
	if p >= 1 {
		return 1
	}
	return math.Floor(p*float64(c.n)) / float64(c.n)
}

// bezierCurve is a CSS-style cubic Bézier with end points (0,0) and (1,1).
type bezierCurve struct{ x1, y1, x2, y2 float64 }

func bezier(t, a, b float64) float64 {
	u := 1 - t
	return 3*u*u*t*a + 3*u*t*t*b + t*t*t
}

func (c bezierCurve) At(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	lo, hi := 0.0, 1.0
	t := p
	for range 64 {
		x := bezier(t, c.x1, c.x2)
		if math.Abs(x-p) < 1e-7 {
			break
		}
		if x < p {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezier(t, c.y1, c.y2)
}

var namedCurves = map[string]Curve{
	"linear":      linearCurve{},
	"ease":        bezierCurve{0.25, 0.1, 0.25, 1},
	"ease-in":     bezierCurve{0.42, 0, 1, 1},
	"ease-out":    bezierCurve{0, 0, 0.58, 1},
	"ease-in-out": bezierCurve{0.42, 0, 0.58, 1},
}

// ParseCurve accepts a named curve, "cubic-bezier(x1, y1, x2, y2)" or
// "steps(n)".
func ParseCurve(s string) (Curve, error) {
	s = strings.TrimSpace(s)
	if c, ok := namedCurves[s]; ok {
		return c, nil
	}

	name, args, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(args, ")") {
		return nil, fmt.Errorf("unknown curve %q", s)
	}
	parts := strings.Split(strings.TrimSuffix(args, ")"), ",")
	nums := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("curve %q: invalid argument %q", s, part)
		}
		nums[i] = f
	}

	switch strings.TrimSpace(name) {
	case "cubic-bezier":
		if len(nums) != 4 {
			return nil, fmt.Errorf("curve %q: cubic-bezier takes 4 arguments", s)
		}
		if nums[0] < 0 || nums[0] > 1 || nums[2] < 0 || nums[2] > 1 {
			return nil, fmt.Errorf("curve %q: x control points must be in [0, 1]", s)
		}
		return bezierCurve{nums[0], nums[1], nums[2], nums[3]}, nil
	case "steps":
		if len(nums) != 1 || nums[0] < 1 || nums[0] != math.Trunc(nums[0]) {
			return nil, fmt.Errorf("curve %q: steps takes one positive integer", s)
		}
		return stepsCurve{n: int(nums[0])}, nil
	}
	return nil, fmt.Errorf("unknown curve %q", s)
}

// progress returns the eased progress of a transition at elapsed seconds.
func progress(c Curve, elapsed, duration, delay float64) float64 {
	t := elapsed - delay
	if t <= 0 {
		return c.At(0)
	}
	if duration <= 0 || t >= duration {
		return c.At(1)
	}
	return c.At(t / duration)
}

package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/physics"
)

// manifold is a set of contact points sharing one normal. The normal points
// from b towards a, so moving a along it separates the pair.
type manifold struct {
	a, b   *Body
	normal mgl64.Vec3
	depth  float64
	points []mgl64.Vec3

	friction    float64
	restitution float64
}

const cornerEpsilon = 0.01

// collide dispatches on the shape pair. The returned manifold always has the
// plane, if any, as b.
func collide(a, b *Body) (manifold, bool) {
	if a.shape == physics.ShapePlane {
		a, b = b, a
	}
	switch {
	case a.shape == physics.ShapePlane:
		return manifold{}, false
	case b.shape == physics.ShapePlane:
		return collidePlane(a, b)
	case a.shape == physics.ShapeSphere && b.shape == physics.ShapeSphere:
		return collideSpheres(a, b)
	case a.shape == physics.ShapeSphere:
		return collideSphereBox(a, b)
	case b.shape == physics.ShapeSphere:
		m, ok := collideSphereBox(b, a)
		if ok {
			m.a, m.b = m.b, m.a
			m.normal = m.normal.Mul(-1)
		}
		return m, ok
	default:
		return collideBoxes(a, b)
	}
}

func collidePlane(a, plane *Body) (manifold, bool) {
	top := plane.pos.Y()
	m := manifold{a: a, b: plane, normal: mgl64.Vec3{0, 1, 0}}

	if a.shape == physics.ShapeSphere {
		depth := top - (a.pos.Y() - a.radius)
		if depth <= 0 {
			return m, false
		}
		m.depth = depth
		m.points = []mgl64.Vec3{{a.pos.X(), top, a.pos.Z()}}
		return m, true
	}

	for _, c := range corners(a.pos, a.axes(), a.half) {
		if d := top - c.Y(); d > 0 {
			m.points = append(m.points, c)
			m.depth = math.Max(m.depth, d)
		}
	}
	return m, len(m.points) > 0
}

func collideSpheres(a, b *Body) (manifold, bool) {
	delta := a.pos.Sub(b.pos)
	dist := delta.Len()
	depth := a.radius + b.radius - dist
	if depth <= 0 {
		return manifold{}, false
	}
	normal := mgl64.Vec3{0, 1, 0}
	if dist > 1e-9 {
		normal = delta.Mul(1 / dist)
	}
	point := b.pos.Add(normal.Mul(b.radius - depth/2))
	return manifold{a: a, b: b, normal: normal, depth: depth, points: []mgl64.Vec3{point}}, true
}

// collideSphereBox finds the closest point on the box to the sphere centre.
func collideSphereBox(s, box *Body) (manifold, bool) {
	axes := box.axes()
	d := s.pos.Sub(box.pos)

	var local mgl64.Vec3
	inside := true
	for i := 0; i < 3; i++ {
		v := d.Dot(axes[i])
		if v > box.half[i] {
			v = box.half[i]
			inside = false
		} else if v < -box.half[i] {
			v = -box.half[i]
			inside = false
		}
		local[i] = v
	}

	closest := box.pos
	for i := 0; i < 3; i++ {
		closest = closest.Add(axes[i].Mul(local[i]))
	}

	if inside {
		// Push out through the nearest face.
		best, axis, sign := math.Inf(1), 0, 1.0
		for i := 0; i < 3; i++ {
			v := d.Dot(axes[i])
			if pen := box.half[i] - math.Abs(v); pen < best {
				best, axis = pen, i
				sign = 1
				if v < 0 {
					sign = -1
				}
			}
		}
		normal := axes[axis].Mul(sign)
		return manifold{a: s, b: box, normal: normal, depth: best + s.radius, points: []mgl64.Vec3{closest}}, true
	}

	delta := s.pos.Sub(closest)
	dist := delta.Len()
	if dist >= s.radius || dist < 1e-12 {
		return manifold{}, false
	}
	return manifold{
		a:      s,
		b:      box,
		normal: delta.Mul(1 / dist),
		depth:  s.radius - dist,
		points: []mgl64.Vec3{closest},
	}, true
}

// collideBoxes runs the separating axis test over the 15 candidate axes of
// two oriented boxes.
func collideBoxes(a, b *Body) (manifold, bool) {
	axesA, axesB := a.axes(), b.axes()
	l := b.pos.Sub(a.pos)

	test := make([]mgl64.Vec3, 0, 15)
	test = append(test, axesA[:]...)
	test = append(test, axesB[:]...)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c := axesA[i].Cross(axesB[j])
			if c.LenSqr() > 1e-6 {
				test = append(test, c.Normalize())
			}
		}
	}

	minOverlap := math.Inf(1)
	var normal mgl64.Vec3
	for _, axis := range test {
		overlap := projectedOverlap(a.half, b.half, axesA, axesB, axis, l)
		if overlap <= 0 {
			return manifold{}, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			normal = axis
		}
	}
	if l.Dot(normal) > 0 {
		normal = normal.Mul(-1)
	}

	m := manifold{a: a, b: b, normal: normal, depth: minOverlap}
	for _, p := range corners(a.pos, axesA, a.half) {
		if insideBox(p, b.pos, axesB, b.half) {
			m.points = append(m.points, p)
		}
	}
	for _, p := range corners(b.pos, axesB, b.half) {
		if insideBox(p, a.pos, axesA, a.half) {
			m.points = append(m.points, p)
		}
	}
	if len(m.points) == 0 {
		// Edge against edge.
		m.points = []mgl64.Vec3{a.pos.Add(b.pos).Mul(0.5)}
	}
	return m, true
}

func projectedOverlap(halfA, halfB mgl64.Vec3, axesA, axesB [3]mgl64.Vec3, axis, l mgl64.Vec3) float64 {
	var pa, pb float64
	for i := 0; i < 3; i++ {
		pa += math.Abs(axesA[i].Dot(axis)) * halfA[i]
		pb += math.Abs(axesB[i].Dot(axis)) * halfB[i]
	}
	return pa + pb - math.Abs(l.Dot(axis))
}

func corners(pos mgl64.Vec3, axes [3]mgl64.Vec3, half mgl64.Vec3) [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		p := pos
		for k := 0; k < 3; k++ {
			off := axes[k].Mul(half[k])
			if i&(1<<k) != 0 {
				p = p.Add(off)
			} else {
				p = p.Sub(off)
			}
		}
		out[i] = p
	}
	return out
}

func insideBox(p, pos mgl64.Vec3, axes [3]mgl64.Vec3, half mgl64.Vec3) bool {
	d := p.Sub(pos)
	for i := 0; i < 3; i++ {
		if math.Abs(d.Dot(axes[i])) > half[i]+cornerEpsilon {
			return false
		}
	}
	return true
}

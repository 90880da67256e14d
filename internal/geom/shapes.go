package geom

// Shape is the distance capability a boundary needs: given a point, report
// the signed distance to the surface (negative inside) and the vector from
// the nearest surface point to the query point.
type Shape interface {
	CalcDist(pos Vec3) (dist float64, vec Vec3)
}

// Wall is an infinite plane defined by a unit normal and its distance from
// the origin along that normal. Points below the plane have negative distance.
type Wall struct {
	Normal Vec3
	Dist   float64
}

func NewWall(normal Vec3, dist float64) *Wall {
	n := normal.Scale(1 / normal.Norm())
	return &Wall{Normal: n, Dist: dist}
}

func (w *Wall) CalcDist(pos Vec3) (float64, Vec3) {
	d := pos.Dot(w.Normal) - w.Dist
	return d, w.Normal.Scale(d)
}

// Sphere is a sphere of radius Rad centered at Pos. With Direction +1 the
// interior is the boundary region (an obstacle); -1 inverts it so the sphere
// acts as a containing vessel.
type Sphere struct {
	Pos       Vec3
	Rad       float64
	Direction float64
}

func NewSphere(pos Vec3, rad float64) *Sphere {
	return &Sphere{Pos: pos, Rad: rad, Direction: 1}
}

func (s *Sphere) CalcDist(pos Vec3) (float64, Vec3) {
	rel := pos.Sub(s.Pos)
	r := rel.Norm()
	dir := s.Direction
	if dir == 0 {
		dir = 1
	}
	d := dir * (r - s.Rad)
	if r == 0 {
		return d, Vec3{}
	}
	return d, rel.Scale(d / r)
}

package sim

import "math"

// Vec3 is a 3-component vector used for positions, velocities and forces
// at the builder surface. Model and State store the same quantities as
// flat float64 arrays with stride 3.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// vecAt reads the i-th stride-3 element of a flat array.
func vecAt(a []float64, i int) Vec3 {
	return Vec3{a[i*3], a[i*3+1], a[i*3+2]}
}

// setVec writes the i-th stride-3 element of a flat array.
func setVec(a []float64, i int, v Vec3) {
	a[i*3] = v.X
	a[i*3+1] = v.Y
	a[i*3+2] = v.Z
}

package types

import "math"

// Add returns the component-wise sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Normalize returns v scaled to unit length; the zero vector is
// returned unchanged.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Rotate applies q to v, treating v as a pure quaternion and computing
// the sandwich product q * (v, 0) * q⁻¹ via the standard closed-form
// expansion for a unit quaternion in (x, y, z, w) order.
func (q Quat) Rotate(v Vec3) Vec3 {
	qv := Vec3{q[0], q[1], q[2]}
	w := q[3]
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(w)).Add(qv.Cross(t))
}

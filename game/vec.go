package game

import "math"

// Vec3 is a point or direction in world units. Z is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V returns a Vec3
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// AddZ returns v raised by dz.
func (v Vec3) AddZ(dz float64) Vec3 { return Vec3{v.X, v.Y, v.Z + dz} }

func (v Vec3) Magnitude() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// SquareDist avoids the sqrt for comparisons
func (v Vec3) SquareDist(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

func (v Vec3) Dist(o Vec3) float64 { return math.Sqrt(v.SquareDist(o)) }

// Dist2D ignores height.
func (v Vec3) Dist2D(o Vec3) float64 { return Distance(v.X, v.Y, o.X, o.Y) }

// IsZero reports whether every component is zero.
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Axis returns component i (0=X, 1=Y, 2=Z).
func (v Vec3) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Forward returns the horizontal unit vector for a yaw in degrees.
// Yaw 0 faces +Y and yaw increases counter-clockwise, matching YawPitch.
func Forward(yaw float64) Vec3 {
	r := yaw * math.Pi / 180
	return Vec3{X: -math.Sin(r), Y: math.Cos(r)}
}

// Direction returns the unit vector for a yaw and pitch in degrees.
func Direction(yaw, pitch float64) Vec3 {
	p := pitch * math.Pi / 180
	f := Forward(yaw).Scale(math.Cos(p))
	return Vec3{X: f.X, Y: f.Y, Z: math.Sin(p)}
}

// Right returns the horizontal unit vector to the right of a yaw in degrees.
func Right(yaw float64) Vec3 {
	r := yaw * math.Pi / 180
	return Vec3{X: math.Cos(r), Y: math.Sin(r)}
}

// Normalize returns v scaled to unit length, or v when it is zero.
func (v Vec3) Normalize() Vec3 {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

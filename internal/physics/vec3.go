package physics

import "math"

// Vec3 三维向量（世界坐标，Y 轴朝上）
type Vec3 struct {
	X float64 `yaml:"x" toml:"x" json:"x"`
	Y float64 `yaml:"y" toml:"y" json:"y"`
	Z float64 `yaml:"z" toml:"z" json:"z"`
}

// V3 创建一个新的 Vec3
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add 返回 a + b
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub 返回 a - b
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale 返回 a * s
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot 点积
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Len 向量长度
func (a Vec3) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

// Normalize 返回单位向量；零向量原样返回
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Midpoint 返回两点的中点
func Midpoint(a, b Vec3) Vec3 {
	return Vec3{(a.X + b.X) / 2, (a.Y + b.Y) / 2, (a.Z + b.Z) / 2}
}

// Quat 旋转四元数
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat 单位四元数（无旋转）
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromEuler 按 XYZ 顺序由欧拉角（弧度）构造四元数
func QuatFromEuler(x, y, z float64) Quat {
	c1, s1 := math.Cos(x/2), math.Sin(x/2)
	c2, s2 := math.Cos(y/2), math.Sin(y/2)
	c3, s3 := math.Cos(z/2), math.Sin(z/2)
	return Quat{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// Conjugate 共轭（单位四元数即为逆）
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Rotate 用四元数旋转向量 v
func (q Quat) Rotate(v Vec3) Vec3 {
	// t = 2 * cross(q.xyz, v)
	tx := 2 * (q.Y*v.Z - q.Z*v.Y)
	ty := 2 * (q.Z*v.X - q.X*v.Z)
	tz := 2 * (q.X*v.Y - q.Y*v.X)
	// v' = v + w*t + cross(q.xyz, t)
	return Vec3{
		X: v.X + q.W*tx + (q.Y*tz - q.Z*ty),
		Y: v.Y + q.W*ty + (q.Z*tx - q.X*tz),
		Z: v.Z + q.W*tz + (q.X*ty - q.Y*tx),
	}
}

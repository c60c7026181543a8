package physics

// MaterialTag 物理材质标签
// 碰撞分类只依据标签取值，不依赖材质对象的身份
type MaterialTag string

const (
	MaterialGround     MaterialTag = "ground"
	MaterialWood       MaterialTag = "wood"
	MaterialSand       MaterialTag = "sand"
	MaterialCube       MaterialTag = "cube"
	MaterialTennisBall MaterialTag = "tennisBall"
	MaterialMetal      MaterialTag = "metal"
	MaterialRubber     MaterialTag = "rubber"
	MaterialBalloon    MaterialTag = "balloon"
)

// ShapeKind 碰撞形状类型
type ShapeKind int

const (
	// ShapeSphere 球体，使用 Radius
	ShapeSphere ShapeKind = iota
	// ShapeBox 长方体，使用 HalfExtents
	ShapeBox
	// ShapePlane 无限大水平面（法线朝 +Y），位于 Position.Y
	ShapePlane
)

// Shape 碰撞形状
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents Vec3
}

// Sphere 创建球形
func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Box 创建长方体（参数为半边长）
func Box(halfExtents Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Plane 创建水平面
func Plane() Shape {
	return Shape{Kind: ShapePlane}
}

// BodyID 刚体唯一标识
type BodyID uint64

// BodyOptions 创建刚体的参数
type BodyOptions struct {
	Mass           float64 // 质量，0 表示静态刚体
	Material       MaterialTag
	Shape          Shape
	Position       Vec3
	LinearDamping  float64 // 每秒线速度衰减比例（0~1）
	AngularDamping float64 // 保留字段：本引擎不模拟角速度
}

// Body 刚体
//
// 只承载动力学状态（位置、速度、质量、材质），游戏状态由 ECS 组件持有。
type Body struct {
	id            BodyID
	Mass          float64
	Material      MaterialTag
	Shape         Shape
	Position      Vec3
	Velocity      Vec3
	Quaternion    Quat
	LinearDamping float64

	listeners []ContactListener
	world     *World
}

// NewBody 创建刚体（尚未加入世界）
func NewBody(opts BodyOptions) *Body {
	return &Body{
		Mass:          opts.Mass,
		Material:      opts.Material,
		Shape:         opts.Shape,
		Position:      opts.Position,
		Quaternion:    IdentityQuat(),
		LinearDamping: opts.LinearDamping,
	}
}

// ID 返回刚体ID（加入世界后分配，未加入时为 0）
func (b *Body) ID() BodyID {
	return b.id
}

// IsStatic 是否为静态刚体
func (b *Body) IsStatic() bool {
	return b.Mass <= 0
}

// InWorld 是否仍挂在某个物理世界中
func (b *Body) InWorld() bool {
	return b.world != nil
}

// MakeStatic 将刚体转为静态（质量清零、速度清零）
func (b *Body) MakeStatic() {
	b.Mass = 0
	b.Velocity = Vec3{}
}

func (b *Body) invMass() float64 {
	if b.IsStatic() {
		return 0
	}
	return 1 / b.Mass
}

// OnCollide 注册碰撞回调
// 回调在 World.Step 内部同步触发，每个接触每步触发一次
func (b *Body) OnCollide(listener ContactListener) {
	b.listeners = append(b.listeners, listener)
}

// ClearListeners 移除所有碰撞回调
func (b *Body) ClearListeners() {
	b.listeners = nil
}

// Energy 机械能
type Energy struct {
	Kinetic   float64
	Potential float64
	Total     float64
}

// EnergyOf 计算刚体的动能 ½mv² 与重力势能 m·g·y（g 取正值）
func EnergyOf(b *Body, gravity float64) Energy {
	if gravity < 0 {
		gravity = -gravity
	}
	v := b.Velocity.Len()
	e := Energy{
		Kinetic:   0.5 * b.Mass * v * v,
		Potential: b.Mass * gravity * b.Position.Y,
	}
	e.Total = e.Kinetic + e.Potential
	return e
}

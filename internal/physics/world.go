// Package physics 提供一个精简的刚体物理世界
//
// 支持球体、长方体（静态体可带旋转）和水平面，重力积分、冲量式碰撞响应，
// 以及按材质对配置的恢复系数/摩擦系数。碰撞回调在 Step 内部同步触发，
// 与 cannon-es 的 "collide" 事件语义一致：每一步、每个接触各触发一次，
// 触发时速度仍是碰撞求解之前的值。
package physics

import (
	"log"
	"math"
)

// ContactMaterial 一对材质之间的接触参数
type ContactMaterial struct {
	Restitution float64 `yaml:"restitution" toml:"restitution"`
	Friction    float64 `yaml:"friction" toml:"friction"`
}

type materialPair struct {
	a, b MaterialTag
}

func makePair(a, b MaterialTag) materialPair {
	if a > b {
		a, b = b, a
	}
	return materialPair{a, b}
}

// contact 一次检测到的接触，Normal 由 B 指向 A
type contact struct {
	a, b   *Body
	normal Vec3
	depth  float64
}

const (
	positionSlop       = 0.01
	positionCorrection = 0.8
)

// World 物理世界
type World struct {
	Gravity         Vec3
	DefaultContact  ContactMaterial
	bodies          []*Body
	contactMaterial map[materialPair]ContactMaterial
	nextID          BodyID

	stepping       bool
	pendingRemoval []*Body
}

// NewWorld 创建物理世界
func NewWorld(gravity Vec3) *World {
	return &World{
		Gravity:         gravity,
		DefaultContact:  ContactMaterial{Restitution: 0.3, Friction: 0.3},
		contactMaterial: make(map[materialPair]ContactMaterial),
		nextID:          1,
	}
}

// AddContactMaterial 注册一对材质的接触参数（顺序无关）
func (w *World) AddContactMaterial(a, b MaterialTag, cm ContactMaterial) {
	w.contactMaterial[makePair(a, b)] = cm
}

// ContactMaterialFor 查询一对材质的接触参数，未注册时返回默认值
func (w *World) ContactMaterialFor(a, b MaterialTag) ContactMaterial {
	if cm, ok := w.contactMaterial[makePair(a, b)]; ok {
		return cm
	}
	return w.DefaultContact
}

// AddBody 将刚体加入世界并分配ID
func (w *World) AddBody(b *Body) {
	if b.world == w {
		return
	}
	b.id = w.nextID
	w.nextID++
	b.world = w
	w.bodies = append(w.bodies, b)
}

// RemoveBody 从世界移除刚体
// Step 进行中调用时延迟到本步结束再真正移除
func (w *World) RemoveBody(b *Body) {
	if b == nil || b.world != w {
		return
	}
	if w.stepping {
		w.pendingRemoval = append(w.pendingRemoval, b)
		return
	}
	w.removeNow(b)
}

func (w *World) removeNow(b *Body) {
	for i, body := range w.bodies {
		if body == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	b.world = nil
}

// HasBody 刚体是否在世界中
func (w *World) HasBody(b *Body) bool {
	return b != nil && b.world == w
}

// Bodies 返回当前所有刚体（副本）
func (w *World) Bodies() []*Body {
	result := make([]*Body, len(w.bodies))
	copy(result, w.bodies)
	return result
}

// BodyCount 刚体数量
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Step 推进一步模拟
//
// 顺序：检测接触 → 同步派发碰撞回调 → 求解冲量 → 积分速度与位置。
// 回调中调用 RemoveBody 会延迟到本步结束。
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.stepping = true

	contacts := w.detectContacts()

	for _, c := range contacts {
		w.dispatch(c)
	}

	for _, c := range contacts {
		if c.a.world != w || c.b.world != w || w.isPendingRemoval(c.a) || w.isPendingRemoval(c.b) {
			continue
		}
		w.resolve(c)
	}

	for _, b := range w.bodies {
		if b.IsStatic() {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		if b.LinearDamping > 0 {
			b.Velocity = b.Velocity.Scale(math.Pow(1-b.LinearDamping, dt))
		}
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}

	w.stepping = false
	if len(w.pendingRemoval) > 0 {
		for _, b := range w.pendingRemoval {
			if b.world == w {
				w.removeNow(b)
			}
		}
		w.pendingRemoval = w.pendingRemoval[:0]
	}
}

func (w *World) isPendingRemoval(b *Body) bool {
	for _, p := range w.pendingRemoval {
		if p == b {
			return true
		}
	}
	return false
}

func (w *World) detectContacts() []contact {
	contacts := make([]contact, 0)
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if a.IsStatic() && b.IsStatic() {
				continue
			}
			if c, ok := collide(a, b); ok {
				contacts = append(contacts, c)
			}
		}
	}
	return contacts
}

// dispatch 向双方派发碰撞事件
func (w *World) dispatch(c contact) {
	approach := -c.a.Velocity.Sub(c.b.Velocity).Dot(c.normal)

	eventA := ContactEvent{Body: c.a, Other: c.b, Normal: c.normal, impactVelocity: approach}
	eventB := ContactEvent{Body: c.b, Other: c.a, Normal: c.normal.Scale(-1), impactVelocity: approach}

	// 回调可能注册/清除监听器，先复制
	for _, l := range append([]ContactListener(nil), c.a.listeners...) {
		l(eventA)
	}
	for _, l := range append([]ContactListener(nil), c.b.listeners...) {
		l(eventB)
	}
}

func (w *World) resolve(c contact) {
	invA, invB := c.a.invMass(), c.b.invMass()
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	cm := w.ContactMaterialFor(c.a.Material, c.b.Material)
	rel := c.a.Velocity.Sub(c.b.Velocity)
	vn := rel.Dot(c.normal)

	if vn < 0 {
		j := -(1 + cm.Restitution) * vn / invSum
		impulse := c.normal.Scale(j)
		c.a.Velocity = c.a.Velocity.Add(impulse.Scale(invA))
		c.b.Velocity = c.b.Velocity.Sub(impulse.Scale(invB))

		// 库仑摩擦：切向冲量不超过 μ·j
		tangent := rel.Sub(c.normal.Scale(vn))
		if vt := tangent.Len(); vt > 1e-9 {
			jt := math.Min(vt/invSum, cm.Friction*j)
			fImpulse := tangent.Normalize().Scale(-jt)
			c.a.Velocity = c.a.Velocity.Add(fImpulse.Scale(invA))
			c.b.Velocity = c.b.Velocity.Sub(fImpulse.Scale(invB))
		}
	}

	if c.depth > positionSlop {
		corr := c.normal.Scale((c.depth - positionSlop) / invSum * positionCorrection)
		c.a.Position = c.a.Position.Add(corr.Scale(invA))
		c.b.Position = c.b.Position.Sub(corr.Scale(invB))
	}
}

// collide 检测两个刚体是否接触，返回的法线由 b 指向 a
func collide(a, b *Body) (contact, bool) {
	// 平面总是放在 b 位置
	if a.Shape.Kind == ShapePlane {
		c, ok := collide(b, a)
		return flip(c), ok
	}

	switch b.Shape.Kind {
	case ShapePlane:
		return collideWithPlane(a, b)
	case ShapeSphere:
		if a.Shape.Kind == ShapeSphere {
			return collideSphereSphere(a, b)
		}
		// 长方体 vs 球：交换后翻转
		c, ok := collideSphereBox(b, a)
		return flip(c), ok
	case ShapeBox:
		if a.Shape.Kind == ShapeSphere {
			return collideSphereBox(a, b)
		}
		return collideBoxBox(a, b)
	}
	log.Printf("[Physics] Warning: unsupported shape pair %d/%d", a.Shape.Kind, b.Shape.Kind)
	return contact{}, false
}

func flip(c contact) contact {
	return contact{a: c.b, b: c.a, normal: c.normal.Scale(-1), depth: c.depth}
}

func collideWithPlane(a, plane *Body) (contact, bool) {
	var bottom float64
	switch a.Shape.Kind {
	case ShapeSphere:
		bottom = a.Position.Y - a.Shape.Radius
	case ShapeBox:
		bottom = a.Position.Y - a.Shape.HalfExtents.Y
	default:
		return contact{}, false
	}
	depth := plane.Position.Y - bottom
	if depth <= 0 {
		return contact{}, false
	}
	return contact{a: a, b: plane, normal: Vec3{Y: 1}, depth: depth}, true
}

func collideSphereSphere(a, b *Body) (contact, bool) {
	delta := a.Position.Sub(b.Position)
	dist := delta.Len()
	radii := a.Shape.Radius + b.Shape.Radius
	if dist >= radii {
		return contact{}, false
	}
	normal := Vec3{Y: 1}
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}
	return contact{a: a, b: b, normal: normal, depth: radii - dist}, true
}

// collideSphereBox 球 a 与（可旋转的）长方体 b
func collideSphereBox(sphere, box *Body) (contact, bool) {
	inv := box.Quaternion.Conjugate()
	local := inv.Rotate(sphere.Position.Sub(box.Position))
	he := box.Shape.HalfExtents

	closest := Vec3{
		X: clamp(local.X, -he.X, he.X),
		Y: clamp(local.Y, -he.Y, he.Y),
		Z: clamp(local.Z, -he.Z, he.Z),
	}
	diff := local.Sub(closest)
	dist := diff.Len()
	r := sphere.Shape.Radius

	if dist >= r {
		return contact{}, false
	}

	var localNormal Vec3
	var depth float64
	if dist > 0 {
		localNormal = diff.Scale(1 / dist)
		depth = r - dist
	} else {
		// 球心在盒内：沿穿透最浅的轴推出
		localNormal, depth = shallowestAxis(local, he)
		depth += r
	}

	return contact{
		a:      sphere,
		b:      box,
		normal: box.Quaternion.Rotate(localNormal),
		depth:  depth,
	}, true
}

// collideBoxBox 两个长方体按轴对齐包围盒处理（动态长方体不旋转）
func collideBoxBox(a, b *Body) (contact, bool) {
	delta := a.Position.Sub(b.Position)
	ha, hb := a.Shape.HalfExtents, b.Shape.HalfExtents

	ox := ha.X + hb.X - math.Abs(delta.X)
	oy := ha.Y + hb.Y - math.Abs(delta.Y)
	oz := ha.Z + hb.Z - math.Abs(delta.Z)
	if ox <= 0 || oy <= 0 || oz <= 0 {
		return contact{}, false
	}

	normal := Vec3{X: sign(delta.X)}
	depth := ox
	if oy < depth {
		normal, depth = Vec3{Y: sign(delta.Y)}, oy
	}
	if oz < depth {
		normal, depth = Vec3{Z: sign(delta.Z)}, oz
	}
	return contact{a: a, b: b, normal: normal, depth: depth}, true
}

func shallowestAxis(p, he Vec3) (Vec3, float64) {
	dx := he.X - math.Abs(p.X)
	dy := he.Y - math.Abs(p.Y)
	dz := he.Z - math.Abs(p.Z)

	normal, depth := Vec3{Y: sign(p.Y)}, dy
	if dx < depth {
		normal, depth = Vec3{X: sign(p.X)}, dx
	}
	if dz < depth {
		normal, depth = Vec3{Z: sign(p.Z)}, dz
	}
	return normal, depth
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

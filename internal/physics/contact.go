package physics

// ContactEvent 碰撞事件
// Body 是接收事件的一方，Other 是与之碰撞的刚体，Normal 由 Other 指向 Body
type ContactEvent struct {
	Body   *Body
	Other  *Body
	Normal Vec3

	impactVelocity float64
}

// ImpactVelocityAlongNormal 沿法线方向的相对接近速度（接近时为正）
func (e ContactEvent) ImpactVelocityAlongNormal() float64 {
	return e.impactVelocity
}

// ContactListener 碰撞回调
type ContactListener func(event ContactEvent)

// NewContactEvent 构造碰撞事件（供测试和回放使用）
func NewContactEvent(body, other *Body, impactVelocity float64) ContactEvent {
	return ContactEvent{Body: body, Other: other, Normal: Vec3{Y: 1}, impactVelocity: impactVelocity}
}

package components

// EnergyComponent 生成时的机械能快照（动能+势能）
// 仅用于显示能量比例，不参与任何判定
type EnergyComponent struct {
	Initial float64
}

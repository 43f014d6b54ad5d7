package model

// MMPerInch 毫米/英寸换算常量（精确值）
const MMPerInch = 25.4

// MMToInch 毫米转英寸
func MMToInch(v float64) float64 {
	return v / MMPerInch
}

// InchToMM 英寸转毫米
func InchToMM(v float64) float64 {
	return v * MMPerInch
}

// Source 尺寸取值来源
type Source string

const (
	SourceTitle     Source = "title"     // 标题行规格
	SourceGCode     Source = "gcode"     // 程序刀路提取
	SourceInferred  Source = "inferred"  // 显式声明的推断（如未标注轮毂高度）
	SourceDefaulted Source = "defaulted" // 显式默认值
	SourceEstimated Source = "estimated" // 外部统计估算协作方回填
)

// Dimension 可选尺寸值，区分"未解析"与"解析为 0"
// 所有数值统一为英寸
type Dimension struct {
	Value    float64 `json:"value"`
	Resolved bool    `json:"resolved"`
	Source   Source  `json:"source,omitempty"`
	Line     int     `json:"line,omitempty"` // 来源行索引（Source 为 gcode 时有效，0 起）
}

// ResolvedDim 创建已解析尺寸
func ResolvedDim(value float64, source Source, line int) Dimension {
	return Dimension{
		Value:    value,
		Resolved: true,
		Source:   source,
		Line:     line,
	}
}

// UnresolvedDim 创建未解析尺寸
func UnresolvedDim() Dimension {
	return Dimension{}
}

// SpecValue 标题规格中的可选数值
type SpecValue struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// Spec 创建已给出的规格值
func Spec(value float64) SpecValue {
	return SpecValue{Value: value, Present: true}
}

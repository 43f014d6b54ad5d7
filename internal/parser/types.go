package parser

// Face 当前加工面
type Face string

const (
	FacePrimary Face = "primary" // 第一面
	FaceFlipped Face = "flipped" // 翻面后的第二面
)

// MotionClass 运动类别
type MotionClass string

const (
	MotionRapid MotionClass = "rapid" // G00 快速定位
	MotionFeed  MotionClass = "feed"  // G01/G02/G03 进给切削
)

// ToolRole 刀具用途（从换刀行注释识别）
type ToolRole string

const (
	RoleUnknown ToolRole = "unknown"
	RoleDrill   ToolRole = "drill"   // 钻头
	RoleBore    ToolRole = "bore"    // 镗刀
	RoleFace    ToolRole = "face"    // 端面刀
	RoleTurn    ToolRole = "turn"    // 外圆/车刀
	RoleChamfer ToolRole = "chamfer" // 倒角刀
)

// MachiningContext 扫描期加工上下文，仅在一次扫描内存在
type MachiningContext struct {
	ActiveTool int         `json:"activeTool"` // 当前刀号，0 表示未知
	ToolRole   ToolRole    `json:"toolRole"`   // 当前刀具用途
	Face       Face        `json:"face"`       // 当前加工面
	Motion     MotionClass `json:"motion"`     // 当前运动类别（模态）
	Depth      float64     `json:"depth"`      // 模态 Z 坐标（英寸，负值为切入）
	DepthKnown bool        `json:"depthKnown"` // Z 是否已出现过
}

// TaggedLine 分类后的程序行：原文 + 坐标 + 生效后的上下文快照
type TaggedLine struct {
	Index   int    `json:"index"`   // 源行索引（0 起）
	Text    string `json:"text"`    // 原始行文本
	Comment string `json:"comment"` // 行内注释（去括号，已裁剪空白）

	HasX bool    `json:"hasX"`
	X    float64 `json:"x"` // X 坐标（英寸，车床直径编程）
	HasY bool    `json:"hasY"`
	Y    float64 `json:"y"`
	HasZ bool    `json:"hasZ"`
	Z    float64 `json:"z"` // 本行显式给出的 Z（英寸）

	IsToolChange bool `json:"isToolChange"` // 换刀行
	IsToolReturn bool `json:"isToolReturn"` // G28/G53 回零行
	IsFlip       bool `json:"isFlip"`       // 翻面标记行
	WorkOffset   int  `json:"workOffset"`   // G154 Pn / G54.1 Pn 的数字后缀，0 表示无

	Context MachiningContext `json:"context"` // 本行生效后的上下文
}

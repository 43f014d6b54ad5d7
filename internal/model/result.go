package model

import "strings"

// Severity 校验结论严重级别
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// 校验结论代码
const (
	CodeUnparseableInput   = "unparseable_input"    // 输入不可解析
	CodeTitleDrillMismatch = "title_drill_mismatch" // 标题总高与钻深不一致
	CodeHubInferred        = "hub_inferred"         // 未标注轮毂高度推断
	CodeHubOutOfRange      = "hub_out_of_range"     // 轮毂高度超出族合法区间
	CodeFixtureMismatch    = "fixture_mismatch"     // 夹具偏置与总高不符
	CodeBoreOversize       = "bore_oversize"        // 孔径偏大
	CodeBoreUndersize      = "bore_undersize"       // 孔径偏小
	CodeDimUnresolved      = "dimension_unresolved" // 尺寸无法消歧
	CodeCrashRapidPlunge   = "crash_rapid_plunge"   // 未抬刀快速下插
	CodeCrashCompoundRapid = "crash_compound_rapid" // 负深度下的复合快速移动
	CodeCrashReturnDepth   = "crash_return_depth"   // 回零前仍处负深度
	CodeCrashJawClearance  = "crash_jaw_clearance"  // 深度目标侵入卡爪安全区
)

// ValidationFinding 单条校验结论（只追加，不修改）
type ValidationFinding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// IsCrash 是否属于撞刀风险类结论
func (f ValidationFinding) IsCrash() bool {
	return strings.HasPrefix(f.Code, "crash_")
}

// OverallStatus 程序整体状态
type OverallStatus string

const (
	StatusPass              OverallStatus = "pass"
	StatusWarning           OverallStatus = "warning"
	StatusBoreWarning       OverallStatus = "bore_warning"
	StatusDimensionCritical OverallStatus = "dimension_critical"
	StatusCrashRisk         OverallStatus = "crash_risk"
)

// Dimensions 已接受尺寸集合（全部为英寸）
type Dimensions struct {
	OuterDiameter Dimension `json:"outerDiameter"`
	Thickness     Dimension `json:"thickness"`
	CenterBore    Dimension `json:"centerBore"`
	HubDiameter   Dimension `json:"hubDiameter"`
	HubHeight     Dimension `json:"hubHeight"`
	Counterbore   Dimension `json:"counterbore"`
}

// ResolvedValues 已解析的尺寸数值（供排除带比对）
func (d *Dimensions) ResolvedValues() []float64 {
	values := make([]float64, 0, 6)
	for _, dim := range []Dimension{
		d.OuterDiameter, d.Thickness, d.CenterBore,
		d.HubDiameter, d.HubHeight, d.Counterbore,
	} {
		if dim.Resolved {
			values = append(values, dim.Value)
		}
	}
	return values
}

// ParseResult 单程序解析结果聚合，返回后归调用方所有
type ParseResult struct {
	ProgramName string              `json:"programName"`
	Title       *TitleSpec          `json:"title,omitempty"`
	Family      PartFamily          `json:"family"`
	Dimensions  Dimensions          `json:"dimensions"`
	DrillDepth  Dimension           `json:"drillDepth"` // 程序实际最大钻/镗深
	Findings    []ValidationFinding `json:"findings"`
	Status      OverallStatus       `json:"status"`
}

// AddFinding 追加一条校验结论
func (r *ParseResult) AddFinding(severity Severity, code, message string) {
	r.Findings = append(r.Findings, ValidationFinding{
		Severity: severity,
		Code:     code,
		Message:  message,
	})
}

// HasCritical 是否存在 CRITICAL 结论
func (r *ParseResult) HasCritical() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ComputeStatus 按优先级汇总整体状态：
// 撞刀风险 > 尺寸 CRITICAL > 孔径 WARNING > 一般 WARNING > 通过
func (r *ParseResult) ComputeStatus() OverallStatus {
	hasCrash := false
	hasCritical := false
	hasBoreWarning := false
	hasWarning := false

	for _, f := range r.Findings {
		switch {
		case f.IsCrash() && f.Severity == SeverityCritical:
			hasCrash = true
		case f.Severity == SeverityCritical:
			hasCritical = true
		case f.Severity == SeverityWarning &&
			(f.Code == CodeBoreOversize || f.Code == CodeBoreUndersize):
			hasBoreWarning = true
		case f.Severity == SeverityWarning:
			hasWarning = true
		}
	}

	switch {
	case hasCrash:
		return StatusCrashRisk
	case hasCritical:
		return StatusDimensionCritical
	case hasBoreWarning:
		return StatusBoreWarning
	case hasWarning:
		return StatusWarning
	default:
		return StatusPass
	}
}

package parser

import (
	"strings"

	"gcide/internal/model"
)

// ContextTracker 行分类与加工上下文跟踪器
//
// 对一个程序做单趟扫描，输出逐行的 (行, 上下文) 序列。
// 上下文为本次扫描的局部状态，跨程序不共享，可安全并行。
type ContextTracker struct{}

// NewContextTracker 创建跟踪器
func NewContextTracker() *ContextTracker {
	return &ContextTracker{}
}

// Scan 扫描程序文本，产出分类行序列
//
// 规则：
//   - T 字换刀并按行注释识别刀具用途
//   - 翻面标记注释切换加工面并重置深度跟踪
//   - G00 置快速，G01/G02/G03 置进给，运动类别模态保持
//   - Z 坐标模态保持；快速行上的 Z 移动仍标记为快速，下游不得取数
//   - G20/G21 切换英寸/毫米，坐标统一换算为英寸
//   - 坏行整行跳过，沿用上一有效上下文
func (t *ContextTracker) Scan(p *model.ProgramText) []TaggedLine {
	ctx := MachiningContext{
		Face:     FacePrimary,
		Motion:   MotionRapid,
		ToolRole: RoleUnknown,
	}
	scale := 1.0 // 英寸模式下 1.0，毫米模式下 1/25.4

	var out []TaggedLine
	for idx, raw := range p.Lines() {
		code, comment := StripComment(raw)
		if code == "" && comment == "" {
			continue
		}

		words, hadBad := ParseWords(code)
		if hadBad {
			// 坏行：跳过整行，不更新上下文
			continue
		}

		tl := TaggedLine{Index: idx, Text: raw, Comment: comment}

		// 单位切换
		if hasGCode(words, 20) {
			scale = 1.0
		}
		if hasGCode(words, 21) {
			scale = 1.0 / model.MMPerInch
		}

		// 翻面标记：切面并重置深度跟踪
		if isFlipMarker(comment) {
			tl.IsFlip = true
			ctx.Face = FaceFlipped
			ctx.Depth = 0
			ctx.DepthKnown = false
		}

		// 换刀
		if w, ok := findWord(words, 'T'); ok {
			tool := int(w.Value)
			if tool >= 100 {
				// 车床 T0101 格式：前两位为刀号
				tool = tool / 100
			}
			if tool > 0 {
				tl.IsToolChange = true
				ctx.ActiveTool = tool
				ctx.ToolRole = classifyToolRole(comment)
			}
		}

		// 运动类别（模态）
		for _, w := range words {
			if w.Letter != 'G' {
				continue
			}
			switch {
			case approxEqual(w.Value, 0):
				ctx.Motion = MotionRapid
			case approxEqual(w.Value, 1), approxEqual(w.Value, 2), approxEqual(w.Value, 3):
				ctx.Motion = MotionFeed
			}
		}

		// 回零序列
		if hasGCode(words, 28) || hasGCode(words, 53) {
			tl.IsToolReturn = true
		}

		// 工作偏置选择：仅认 G154 Pn / G54.1 Pn 的数字后缀，
		// 注释里的游离数字一律不作为偏置号
		if hasGCode(words, 154) || hasGCode(words, 54.1) {
			if pw, ok := findWord(words, 'P'); ok && pw.Value > 0 {
				tl.WorkOffset = int(pw.Value)
			}
		}

		// 坐标
		if w, ok := findWord(words, 'X'); ok {
			tl.HasX = true
			tl.X = w.Value * scale
		}
		if w, ok := findWord(words, 'Y'); ok {
			tl.HasY = true
			tl.Y = w.Value * scale
		}
		if w, ok := findWord(words, 'Z'); ok {
			tl.HasZ = true
			tl.Z = w.Value * scale
			ctx.Depth = tl.Z
			ctx.DepthKnown = true
		}

		tl.Context = ctx
		out = append(out, tl)
	}

	return out
}

// isFlipMarker 判断注释是否为翻面标记
func isFlipMarker(comment string) bool {
	if comment == "" {
		return false
	}
	c := strings.ToUpper(comment)
	keywords := []string{
		"FLIP", "OP2", "OP 2", "SIDE 2", "SIDE2", "2ND OP", "SECOND OP",
	}
	for _, kw := range keywords {
		if strings.Contains(c, kw) {
			return true
		}
	}
	return false
}

// classifyToolRole 根据换刀行注释识别刀具用途
func classifyToolRole(comment string) ToolRole {
	if comment == "" {
		return RoleUnknown
	}
	c := strings.ToUpper(comment)

	// 倒角优先判定：例如 "CHAMFER BORE" 属倒角刀而非镗刀
	if strings.Contains(c, "CHAMF") || strings.Contains(c, "45 DEG") {
		return RoleChamfer
	}
	if strings.Contains(c, "DRILL") {
		return RoleDrill
	}
	if strings.Contains(c, "BORE") || strings.Contains(c, "BORING") {
		return RoleBore
	}
	if strings.Contains(c, "FACE") || strings.Contains(c, "FACING") {
		return RoleFace
	}
	if strings.Contains(c, "TURN") || strings.Contains(c, "OD ") || c == "OD" {
		return RoleTurn
	}
	return RoleUnknown
}

// FullDrillDepth 程序全钻深：进给行达到的最大切入深度（英寸，正值）及其行索引
// 快速行上的 Z 一律不计；无进给切入时返回 (0, -1)
func FullDrillDepth(lines []TaggedLine) (float64, int) {
	depth := 0.0
	line := -1
	for _, tl := range lines {
		if tl.Context.Motion != MotionFeed {
			continue
		}
		if !tl.HasZ || tl.Z >= 0 {
			continue
		}
		if -tl.Z > depth {
			depth = -tl.Z
			line = tl.Index
		}
	}
	return depth, line
}

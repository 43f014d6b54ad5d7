package validator

import (
	"fmt"

	"gcide/internal/model"
	"gcide/internal/parser"
)

// CrashScan 撞刀风险扫描：独立重走分类行流，与尺寸解析结果互不依赖
//
// 检测模式：
//   - 未经安全抬刀的负深度快速移动
//   - 深度为负时的平面+深度复合快速移动
//   - 回零序列前仍处负深度
//   - 深度目标侵入卡爪安全区（仅在总高已知时检查）
//
// 开机状态按未抬刀处理（保守）。同类风险每程序只报一次。
func (v *Validator) CrashScan(res *model.ParseResult, lines []parser.TaggedLine) {
	retracted := false
	seen := map[string]bool{}

	report := func(code, msg string) {
		if seen[code] {
			return
		}
		seen[code] = true
		res.AddFinding(model.SeverityCritical, code, msg)
	}

	// 卡爪深度上限：总高 + 钻透余量 + 卡爪安全余量
	jawLimit := 0.0
	if res.Dimensions.Thickness.Resolved {
		jawLimit = res.Dimensions.Thickness.Value + v.cfg.BreachAllowance + v.cfg.JawClearance
		if res.Dimensions.HubHeight.Resolved {
			jawLimit += res.Dimensions.HubHeight.Value
		}
	}

	for _, tl := range lines {
		rapid := tl.Context.Motion == parser.MotionRapid

		if rapid && tl.HasZ && tl.Z < 0 {
			if !retracted {
				report(model.CodeCrashRapidPlunge,
					fmt.Sprintf("第 %d 行：未经安全抬刀即快速移动至 Z%.3f", tl.Index+1, tl.Z))
			}
			if tl.HasX || tl.HasY {
				report(model.CodeCrashCompoundRapid,
					fmt.Sprintf("第 %d 行：负深度下的平面+深度复合快速移动", tl.Index+1))
			}
		}

		if tl.IsToolReturn && tl.Context.DepthKnown && tl.Context.Depth < 0 {
			report(model.CodeCrashReturnDepth,
				fmt.Sprintf("第 %d 行：回零时仍处 Z%.3f 负深度", tl.Index+1, tl.Context.Depth))
		}

		if jawLimit > 0 && tl.HasZ && -tl.Z > jawLimit {
			report(model.CodeCrashJawClearance,
				fmt.Sprintf("第 %d 行：深度目标 Z%.3f 超出卡爪安全上限 %.3f\"", tl.Index+1, tl.Z, jawLimit))
		}

		// 抬刀状态更新
		if tl.HasZ {
			if tl.Z >= v.cfg.SafeRetractZ {
				retracted = true
			} else if tl.Z < 0 {
				retracted = false
			}
		}
	}
}

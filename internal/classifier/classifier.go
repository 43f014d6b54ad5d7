package classifier

import (
	"gcide/internal/model"
	"gcide/internal/parser"
)

// 形状特征判定阈值（英寸）
const stepDiameterDelta = 0.3

// Classify 确定零件结构族，规则按序首个命中生效：
//
//	(a) 显式轮毂关键词——永远压过形状推断
//	(b) 两件式 LUG / STUD 关键词
//	(c) 台阶/沉孔形状特征：中间深度存在直径变化且无轮毂关键词
//	(d) 钢环关键词（RING + 钢材质）
//	(e) 默认 STANDARD
//
// 族一经判定在整条流水线内不再变化。
func Classify(spec *model.TitleSpec, lines []parser.TaggedLine, drillDepth float64) model.PartFamily {
	if spec != nil && spec.HasAnyKeyword("HUB_CENTRIC", "HUB") {
		return model.FamilyHubCentric
	}

	if spec != nil && spec.HasKeyword("LUG") {
		return model.FamilyTwoPieceLug
	}
	if spec != nil && spec.HasKeyword("STUD") {
		return model.FamilyTwoPieceStud
	}

	if hasSteppedSignature(lines, drillDepth) || (spec != nil && spec.HasKeyword("STEP")) {
		return model.FamilyStepped
	}

	if spec != nil && spec.HasKeyword("RING") && spec.Material == "STEEL" {
		return model.FamilySteelRing
	}

	return model.FamilyStandard
}

// hasSteppedSignature 粗粒度刀路形状判定：
// 全钻深附近与中间深度各有进给直径，且两者差值超过台阶阈值
func hasSteppedSignature(lines []parser.TaggedLine, drillDepth float64) bool {
	if drillDepth <= 0 {
		return false
	}

	var deep, mid []float64
	for _, tl := range lines {
		if tl.Context.Motion != parser.MotionFeed || !tl.HasX {
			continue
		}
		if !tl.Context.DepthKnown || tl.Context.Depth >= 0 {
			continue
		}

		ratio := -tl.Context.Depth / drillDepth
		switch {
		case ratio >= 0.9:
			deep = append(deep, tl.X)
		case ratio >= 0.25 && ratio <= 0.75:
			mid = append(mid, tl.X)
		}
	}

	for _, m := range mid {
		for _, d := range deep {
			delta := m - d
			if delta < 0 {
				delta = -delta
			}
			if delta > stepDiameterDelta {
				return true
			}
		}
	}
	return false
}

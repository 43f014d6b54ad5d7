package resolver

import (
	"fmt"
	"math"

	"gcide/internal/config"
	"gcide/internal/extractor"
	"gcide/internal/model"
)

// Resolver 消歧与选择引擎：把每个尺寸的候选列表收敛为一个接受值
//
// 所有比较都在规范单位（英寸）下进行，候选在提取阶段已完成换算。
type Resolver struct {
	cfg config.EngineConfig
}

// New 创建消歧引擎
func New(cfg config.EngineConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve 为单个尺寸选出接受值
//
// 规则顺序（顺序即优先级）：
//  1. 丢弃与其他已解析尺寸在排除带内巧合相等的候选
//  2. 有规格值时选数值上最接近规格的候选——绝不取候选集的最小/最大值
//  3. 贴合容差内的候选直接胜出；可信标记只在近似相等的候选间决胜
//     （数值贴合始终压过标记，标记经常标错）
//  4. 无规格值时回退到行号最小的深度可信候选；仍无则判未解析并给 WARNING
//
// resolved 为其他尺寸已接受的数值，用于排除带比对。
func (r *Resolver) Resolve(name string, cands []extractor.Candidate, spec model.SpecValue, resolved []float64) (model.Dimension, *model.ValidationFinding) {
	if len(cands) == 0 {
		return model.UnresolvedDim(), nil
	}

	usable := r.excludeCoincidental(cands, resolved)
	if len(usable) == 0 {
		return model.UnresolvedDim(), &model.ValidationFinding{
			Severity: model.SeverityWarning,
			Code:     model.CodeDimUnresolved,
			Message:  fmt.Sprintf("%s 的全部候选均与其他已解析尺寸巧合，无法消歧", name),
		}
	}

	if spec.Present {
		best := r.closestToSpec(usable, spec.Value)
		return model.ResolvedDim(best.Value, model.SourceGCode, best.Line), nil
	}

	// 无规格值：行号最小的深度可信候选（浅倒角带候选不算）
	for _, c := range usable {
		if c.TrustDepth && !c.Shallow {
			return model.ResolvedDim(c.Value, model.SourceGCode, c.Line), nil
		}
	}

	return model.UnresolvedDim(), &model.ValidationFinding{
		Severity: model.SeverityWarning,
		Code:     model.CodeDimUnresolved,
		Message:  fmt.Sprintf("%s 无规格值且无深度可信候选，保持未解析", name),
	}
}

// excludeCoincidental 丢弃与其他已解析尺寸巧合相等的候选
func (r *Resolver) excludeCoincidental(cands []extractor.Candidate, resolved []float64) []extractor.Candidate {
	if len(resolved) == 0 {
		return cands
	}

	out := make([]extractor.Candidate, 0, len(cands))
	for _, c := range cands {
		coincides := false
		for _, v := range resolved {
			if math.Abs(c.Value-v) <= r.cfg.ExclusionBand {
				coincides = true
				break
			}
		}
		if !coincides {
			out = append(out, c)
		}
	}
	return out
}

// closestToSpec 选数值最接近规格的候选，
// 近似相等时用高可信标记决胜，再平则取行号最小者
//
// 贴合容差内的候选直接胜出：存在贴合候选时比较只在贴合集内进行，
// 带外的标记候选不得靠标记反超带内候选。
func (r *Resolver) closestToSpec(cands []extractor.Candidate, spec float64) extractor.Candidate {
	if tight := r.withinTight(cands, spec); len(tight) > 0 {
		cands = tight
	}

	best := cands[0]
	bestDist := math.Abs(best.Value - spec)

	for _, c := range cands[1:] {
		dist := math.Abs(c.Value - spec)

		switch {
		case dist < bestDist-r.cfg.NearEqualBand:
			// 明显更近：直接替换
			best, bestDist = c, dist
		case dist <= bestDist+r.cfg.NearEqualBand:
			// 近似相等：高可信标记决胜；再平保持行号较小者
			if highTrust(c) && !highTrust(best) {
				best, bestDist = c, dist
			}
		}
	}

	return best
}

// highTrust 深度可信且带标记的候选
func highTrust(c extractor.Candidate) bool {
	return c.TrustMarker && c.TrustDepth && !c.Shallow
}

// withinTight 贴合容差内的候选子集
func (r *Resolver) withinTight(cands []extractor.Candidate, spec float64) []extractor.Candidate {
	var out []extractor.Candidate
	for _, c := range cands {
		if math.Abs(c.Value-spec) <= r.cfg.TightTolerance {
			out = append(out, c)
		}
	}
	return out
}

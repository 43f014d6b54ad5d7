package validator

import (
	"fmt"
	"math"

	"gcide/internal/config"
	"gcide/internal/extractor"
	"gcide/internal/model"
)

// Validator 交叉校验器：把接受值与规格、彼此以及夹具表相互对账
//
// 前置条件：族、厚度、轮毂高度均已解析或明确判为未知。
type Validator struct {
	cfg config.EngineConfig
}

// New 创建校验器
func New(cfg config.EngineConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate 执行全部尺寸类交叉校验，结论直接追加到 result 上
//
// 引擎绝不悄悄纠正标题或程序——唯一的例外是文档化的
// 未标注轮毂推断，它以 inferred 来源显式注入，是声明的推断而非纠正。
func (v *Validator) Validate(res *model.ParseResult, offsets []extractor.OffsetRef) {
	v.reconcileHeights(res)
	v.checkFixtures(res, offsets)
	v.checkBoreTolerances(res)
}

// reconcileHeights 总高复核：钻深 ≈ 厚度 + 轮毂高 + 钻透余量
//
// 对惯例上可省略轮毂高度的族，先检验
// 钻深−厚度−余量 是否落入该族的未标注轮毂区间；
// 命中则视标题厚度为仅主体厚度并注入推断轮毂，不按不一致上报。
func (v *Validator) reconcileHeights(res *model.ParseResult) {
	thick := res.Dimensions.Thickness
	hub := res.Dimensions.HubHeight
	drill := res.DrillDepth

	if !drill.Resolved || !thick.Resolved {
		return
	}

	params := res.Family.Params()

	if !hub.Resolved && !params.UnstatedHubRange.IsEmpty() {
		inferred := drill.Value - thick.Value - v.cfg.BreachAllowance
		if params.UnstatedHubRange.Contains(inferred) {
			res.Dimensions.HubHeight = model.Dimension{
				Value:    inferred,
				Resolved: true,
				Source:   model.SourceInferred,
			}
			res.AddFinding(model.SeverityInfo, model.CodeHubInferred,
				fmt.Sprintf("标题未标注轮毂高度，按钻深推断为 %.3f\"（族 %s 的惯例区间 [%.2f, %.2f]）",
					inferred, res.Family, params.UnstatedHubRange.Min, params.UnstatedHubRange.Max))
			return
		}
	}

	hubValue := 0.0
	if res.Dimensions.HubHeight.Resolved {
		hubValue = res.Dimensions.HubHeight.Value
	}

	expected := thick.Value + hubValue + v.cfg.BreachAllowance
	if math.Abs(drill.Value-expected) > v.cfg.HeightTolerance {
		res.AddFinding(model.SeverityCritical, model.CodeTitleDrillMismatch,
			fmt.Sprintf("标题总高 %.3f\"（厚度 %.3f + 轮毂 %.3f + 余量 %.3f）与程序钻深 %.3f\" 不一致",
				expected, thick.Value, hubValue, v.cfg.BreachAllowance, drill.Value))
		return
	}

	if res.Dimensions.HubHeight.Resolved && !params.LegalHubRange.IsEmpty() &&
		!params.LegalHubRange.Contains(res.Dimensions.HubHeight.Value) {
		res.AddFinding(model.SeverityWarning, model.CodeHubOutOfRange,
			fmt.Sprintf("轮毂高度 %.3f\" 超出族 %s 的合法区间 [%.2f, %.2f]",
				res.Dimensions.HubHeight.Value, res.Family,
				params.LegalHubRange.Min, params.LegalHubRange.Max))
	}
}

// checkFixtures 夹具偏置校验：比对对账后总高（厚度+实际轮毂高）
func (v *Validator) checkFixtures(res *model.ParseResult, offsets []extractor.OffsetRef) {
	if len(offsets) == 0 || !res.Dimensions.Thickness.Resolved {
		return
	}

	total := res.Dimensions.Thickness.Value
	if res.Dimensions.HubHeight.Resolved {
		total += res.Dimensions.HubHeight.Value
	}

	table := res.Family.Params().FixtureTable
	for _, ref := range offsets {
		expected, ok := LookupFixture(table, ref.Number)
		if !ok {
			res.AddFinding(model.SeverityInfo, model.CodeFixtureMismatch,
				fmt.Sprintf("偏置号 P%d 不在族 %s 的夹具表中（第 %d 行）",
					ref.Number, res.Family, ref.Line+1))
			continue
		}
		if math.Abs(expected-total) > v.cfg.FixtureTolerance {
			res.AddFinding(model.SeverityWarning, model.CodeFixtureMismatch,
				fmt.Sprintf("偏置号 P%d 期望总高 %.3f\"，对账总高为 %.3f\"（第 %d 行）",
					ref.Number, expected, total, ref.Line+1))
		}
	}
}

// checkBoreTolerances 孔径方向性容差：偏大/偏小分别带紧 CRITICAL 与松 WARNING 两档
func (v *Validator) checkBoreTolerances(res *model.ParseResult) {
	type boreCheck struct {
		name string
		dim  model.Dimension
		spec model.SpecValue
	}

	var checks []boreCheck
	if res.Title != nil {
		checks = []boreCheck{
			{"中心孔", res.Dimensions.CenterBore, res.Title.CenterBore},
			{"轮毂直径", res.Dimensions.HubDiameter, res.Title.HubDiameter},
			{"沉孔", res.Dimensions.Counterbore, res.Title.Counterbore},
		}
	}

	for _, c := range checks {
		// 只比对程序实测值；来源为标题的值与规格恒等，无比对意义
		if !c.dim.Resolved || c.dim.Source != model.SourceGCode || !c.spec.Present {
			continue
		}

		delta := c.dim.Value - c.spec.Value
		bore := v.cfg.Bore

		switch {
		case delta < 0 && -delta > bore.UndersizeCritical:
			res.AddFinding(model.SeverityCritical, model.CodeBoreUndersize,
				fmt.Sprintf("%s实测 %.4f\" 比规格 %.4f\" 偏小 %.4f\"", c.name, c.dim.Value, c.spec.Value, -delta))
		case delta < 0 && -delta > bore.UndersizeWarning:
			res.AddFinding(model.SeverityWarning, model.CodeBoreUndersize,
				fmt.Sprintf("%s实测 %.4f\" 比规格 %.4f\" 偏小 %.4f\"", c.name, c.dim.Value, c.spec.Value, -delta))
		case delta > 0 && delta > bore.OversizeCritical:
			res.AddFinding(model.SeverityCritical, model.CodeBoreOversize,
				fmt.Sprintf("%s实测 %.4f\" 比规格 %.4f\" 偏大 %.4f\"", c.name, c.dim.Value, c.spec.Value, delta))
		case delta > 0 && delta > bore.OversizeWarning:
			res.AddFinding(model.SeverityWarning, model.CodeBoreOversize,
				fmt.Sprintf("%s实测 %.4f\" 比规格 %.4f\" 偏大 %.4f\"", c.name, c.dim.Value, c.spec.Value, delta))
		}
	}
}

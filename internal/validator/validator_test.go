package validator

import (
	"testing"

	"gcide/internal/config"
	"gcide/internal/extractor"
	"gcide/internal/model"
)

func newResult(family model.PartFamily, thickness, drill float64) *model.ParseResult {
	return &model.ParseResult{
		ProgramName: "test.nc",
		Family:      family,
		Dimensions: model.Dimensions{
			Thickness: model.ResolvedDim(thickness, model.SourceTitle, 0),
		},
		DrillDepth: model.ResolvedDim(drill, model.SourceGCode, 0),
	}
}

func findingByCode(res *model.ParseResult, code string) *model.ValidationFinding {
	for i := range res.Findings {
		if res.Findings[i].Code == code {
			return &res.Findings[i]
		}
	}
	return nil
}

// 钢环：钻深 1.65、厚度 1.25，未标注轮毂 → 推断轮毂 0.25，不报 CRITICAL
func TestReconcileInfersUnstatedHub(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilySteelRing, 1.25, 1.65)

	v.Validate(res, nil)

	if res.HasCritical() {
		t.Fatalf("unexpected critical findings: %+v", res.Findings)
	}

	hub := res.Dimensions.HubHeight
	if !hub.Resolved {
		t.Fatal("hub height not inferred")
	}
	if hub.Value < 0.249 || hub.Value > 0.251 {
		t.Fatalf("inferred hub = %.3f, want 0.25", hub.Value)
	}
	if hub.Source != model.SourceInferred {
		t.Fatalf("hub source = %s, want inferred", hub.Source)
	}
	if findingByCode(res, model.CodeHubInferred) == nil {
		t.Fatal("missing hub_inferred info finding")
	}
}

// 推断值落在惯例区间外 → 不推断，按不一致上报
func TestReconcileMismatchOutsideUnstatedRange(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	// 1.95 - 1.25 - 0.15 = 0.55，超出钢环惯例区间 [0.20, 0.30]
	res := newResult(model.FamilySteelRing, 1.25, 1.95)

	v.Validate(res, nil)

	if res.Dimensions.HubHeight.Resolved {
		t.Fatalf("hub should not be inferred, got %.3f", res.Dimensions.HubHeight.Value)
	}
	f := findingByCode(res, model.CodeTitleDrillMismatch)
	if f == nil {
		t.Fatal("missing title_drill_mismatch finding")
	}
	if f.Severity != model.SeverityCritical {
		t.Fatalf("severity = %s, want critical", f.Severity)
	}
}

// 标题总高与钻深一致 → 无结论
func TestReconcileConsistent(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilyStandard, 1.25, 1.40)

	v.Validate(res, nil)

	if len(res.Findings) != 0 {
		t.Fatalf("unexpected findings: %+v", res.Findings)
	}
}

// 已标注轮毂参与总高复核
func TestReconcileWithStatedHub(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilyHubCentric, 1.0, 1.90)
	res.Dimensions.HubHeight = model.ResolvedDim(0.75, model.SourceTitle, 0)

	v.Validate(res, nil)

	if findingByCode(res, model.CodeTitleDrillMismatch) != nil {
		t.Fatalf("unexpected mismatch finding: %+v", res.Findings)
	}
}

// 轮毂高度超出族合法区间 → WARNING
func TestReconcileHubOutOfLegalRange(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilyHubCentric, 1.0, 2.90)
	res.Dimensions.HubHeight = model.ResolvedDim(1.75, model.SourceTitle, 0)

	v.Validate(res, nil)

	f := findingByCode(res, model.CodeHubOutOfRange)
	if f == nil {
		t.Fatalf("missing hub_out_of_range finding: %+v", res.Findings)
	}
	if f.Severity != model.SeverityWarning {
		t.Fatalf("severity = %s, want warning", f.Severity)
	}
}

// 夹具偏置高度与对账总高不符 → WARNING
func TestFixtureMismatch(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilyStandard, 1.25, 1.40)

	// standard 表 P7 期望 1.25，与总高 1.25 相符；P10 期望 2.0，不符
	v.Validate(res, []extractor.OffsetRef{
		{Number: 7, Line: 4},
		{Number: 10, Line: 20},
	})

	var mismatches []model.ValidationFinding
	for _, f := range res.Findings {
		if f.Code == model.CodeFixtureMismatch {
			mismatches = append(mismatches, f)
		}
	}
	if len(mismatches) != 1 {
		t.Fatalf("fixture findings = %d, want 1: %+v", len(mismatches), res.Findings)
	}
	if mismatches[0].Severity != model.SeverityWarning {
		t.Fatalf("severity = %s, want warning", mismatches[0].Severity)
	}
}

// 未知偏置号只提示不告警
func TestFixtureUnknownOffsetIsInfo(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilyStandard, 1.25, 1.40)

	v.Validate(res, []extractor.OffsetRef{{Number: 99, Line: 4}})

	f := findingByCode(res, model.CodeFixtureMismatch)
	if f == nil {
		t.Fatal("missing finding for unknown offset")
	}
	if f.Severity != model.SeverityInfo {
		t.Fatalf("severity = %s, want info", f.Severity)
	}
}

// 孔径方向性容差：偏小更严
func TestBoreToleranceDirectional(t *testing.T) {
	cases := []struct {
		name     string
		measured float64
		spec     float64
		severity model.Severity
		code     string
	}{
		{"偏小超紧带", 4.240, 4.256, model.SeverityCritical, model.CodeBoreUndersize},
		{"偏小在松带", 4.250, 4.256, model.SeverityWarning, model.CodeBoreUndersize},
		{"偏大超紧带", 4.290, 4.256, model.SeverityCritical, model.CodeBoreOversize},
		{"偏大在松带", 4.270, 4.256, model.SeverityWarning, model.CodeBoreOversize},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := New(config.DefaultEngineConfig())
			res := newResult(model.FamilyStandard, 1.25, 1.40)
			res.Title = &model.TitleSpec{CenterBore: model.Spec(c.spec)}
			res.Dimensions.CenterBore = model.ResolvedDim(c.measured, model.SourceGCode, 8)

			v.Validate(res, nil)

			f := findingByCode(res, c.code)
			if f == nil {
				t.Fatalf("missing %s finding: %+v", c.code, res.Findings)
			}
			if f.Severity != c.severity {
				t.Fatalf("severity = %s, want %s", f.Severity, c.severity)
			}
		})
	}
}

// 来源为标题的孔径不参与容差比对
func TestBoreToleranceSkipsTitleSourced(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilyStandard, 1.25, 1.40)
	res.Title = &model.TitleSpec{CenterBore: model.Spec(4.256)}
	res.Dimensions.CenterBore = model.ResolvedDim(4.256, model.SourceTitle, 0)

	v.Validate(res, nil)

	if findingByCode(res, model.CodeBoreUndersize) != nil ||
		findingByCode(res, model.CodeBoreOversize) != nil {
		t.Fatalf("title-sourced bore should not be compared: %+v", res.Findings)
	}
}

// 容差带内的偏差不上报
func TestBoreToleranceWithinBand(t *testing.T) {
	v := New(config.DefaultEngineConfig())
	res := newResult(model.FamilyStandard, 1.25, 1.40)
	res.Title = &model.TitleSpec{CenterBore: model.Spec(4.256)}
	res.Dimensions.CenterBore = model.ResolvedDim(4.258, model.SourceGCode, 8)

	v.Validate(res, nil)

	if len(res.Findings) != 0 {
		t.Fatalf("unexpected findings: %+v", res.Findings)
	}
}

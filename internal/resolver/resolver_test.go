package resolver

import (
	"math"
	"testing"

	"gcide/internal/config"
	"gcide/internal/extractor"
	"gcide/internal/model"
)

func newResolver() *Resolver {
	return New(config.DefaultEngineConfig())
}

func cands(values ...float64) []extractor.Candidate {
	out := make([]extractor.Candidate, len(values))
	for i, v := range values {
		out[i] = extractor.Candidate{Value: v, Line: i * 10, TrustDepth: true}
	}
	return out
}

// 有规格值时必须选最接近规格的候选，绝不取候选集的最小/最大值
func TestResolveClosestToSpecNotExtremes(t *testing.T) {
	dim, finding := newResolver().Resolve("center_bore",
		cands(2.3, 2.6, 2.9, 3.2, 4.886),
		model.Spec(4.89), nil)

	if finding != nil {
		t.Fatalf("unexpected finding: %+v", finding)
	}
	if !dim.Resolved {
		t.Fatalf("dimension unresolved")
	}
	if math.Abs(dim.Value-4.886) > 1e-9 {
		t.Fatalf("resolved = %v, want 4.886 (closest, not min/max)", dim.Value)
	}
}

// 浅深度可信标记不得压过更深、更贴近规格的候选
func TestResolveShallowMarkerLoses(t *testing.T) {
	list := []extractor.Candidate{
		{Value: 5.1, Line: 5, TrustMarker: true, Shallow: true},
		{Value: 4.886, Line: 40, TrustDepth: true},
	}

	dim, _ := newResolver().Resolve("center_bore", list, model.Spec(4.89), nil)

	if !dim.Resolved || math.Abs(dim.Value-4.886) > 1e-9 {
		t.Fatalf("resolved = %+v, want deeper closer candidate 4.886", dim)
	}
}

// 近似相等的候选间，高可信标记决胜
func TestResolveMarkerBreaksNearEqualTie(t *testing.T) {
	list := []extractor.Candidate{
		{Value: 4.888, Line: 10, TrustDepth: true},
		{Value: 4.890, Line: 20, TrustDepth: true, TrustMarker: true},
	}

	dim, _ := newResolver().Resolve("center_bore", list, model.Spec(4.889), nil)

	if math.Abs(dim.Value-4.890) > 1e-9 {
		t.Fatalf("resolved = %v, want marker-backed 4.890", dim.Value)
	}
}

// 贴合容差内的候选直接胜出：带外候选不得靠标记反超带内候选
func TestResolveTightToleranceBeatsMarker(t *testing.T) {
	list := []extractor.Candidate{
		{Value: 1.019, Line: 10, TrustDepth: true},
		{Value: 1.023, Line: 20, TrustDepth: true, TrustMarker: true},
	}

	dim, _ := newResolver().Resolve("hub_diameter", list, model.Spec(1.0), nil)

	if math.Abs(dim.Value-1.019) > 1e-9 {
		t.Fatalf("resolved = %v, want within-tight 1.019 over marker-backed 1.023", dim.Value)
	}
}

// 与其他已解析尺寸巧合的候选被排除
func TestResolveExclusionBand(t *testing.T) {
	list := cands(2.501, 4.886)

	// 2.5 已被其他尺寸占用，2.501 落在排除带内
	dim, _ := newResolver().Resolve("center_bore", list, model.Spec(2.5), []float64{2.5})

	if !dim.Resolved || math.Abs(dim.Value-4.886) > 1e-9 {
		t.Fatalf("resolved = %+v, want 4.886 after exclusion", dim)
	}
}

// 无规格值时回退到行号最小的深度可信候选
func TestResolveNoSpecFallback(t *testing.T) {
	list := []extractor.Candidate{
		{Value: 3.0, Line: 8, TrustDepth: false, Shallow: true},
		{Value: 2.815, Line: 15, TrustDepth: true},
		{Value: 2.9, Line: 30, TrustDepth: true},
	}

	dim, finding := newResolver().Resolve("hub_diameter", list, model.SpecValue{}, nil)

	if finding != nil {
		t.Fatalf("unexpected finding: %+v", finding)
	}
	if math.Abs(dim.Value-2.815) > 1e-9 {
		t.Fatalf("resolved = %v, want first depth-trusted 2.815", dim.Value)
	}
	if dim.Line != 15 {
		t.Fatalf("provenance line = %d, want 15", dim.Line)
	}
}

// 无规格且无可信候选：未解析 + WARNING
func TestResolveUnresolvedWarning(t *testing.T) {
	list := []extractor.Candidate{
		{Value: 3.0, Line: 8, Shallow: true},
	}

	dim, finding := newResolver().Resolve("counterbore", list, model.SpecValue{}, nil)

	if dim.Resolved {
		t.Fatalf("expected unresolved, got %+v", dim)
	}
	if finding == nil || finding.Severity != model.SeverityWarning {
		t.Fatalf("expected warning finding, got %+v", finding)
	}
	if finding.Code != model.CodeDimUnresolved {
		t.Fatalf("finding code = %s, want %s", finding.Code, model.CodeDimUnresolved)
	}
}

// 空候选集：未解析但不告警（是否告警由上层按族预期决定）
func TestResolveEmptyCandidates(t *testing.T) {
	dim, finding := newResolver().Resolve("counterbore", nil, model.SpecValue{}, nil)

	if dim.Resolved || finding != nil {
		t.Fatalf("empty candidates should resolve to nothing silently: %+v %+v", dim, finding)
	}
}

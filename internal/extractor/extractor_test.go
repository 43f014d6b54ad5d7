package extractor

import (
	"math"
	"testing"

	"gcide/internal/config"
	"gcide/internal/model"
	"gcide/internal/parser"
)

func extractLines(t *testing.T, titleThickness float64, lines ...string) *Result {
	t.Helper()
	p := model.NewProgramText("test.nc", lines)
	tagged := parser.NewContextTracker().Scan(p)
	return New(config.DefaultEngineConfig()).Extract(tagged, titleThickness)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestExtractBoreAtFullDepth(t *testing.T) {
	res := extractLines(t, 0,
		"T0202 (BORING BAR)",
		"G01 Z-1.55 F0.008",
		"X4.886",
		"G00 Z0.1",
	)

	if !almostEqual(res.DrillDepth, 1.55) {
		t.Fatalf("drill depth = %v, want 1.55", res.DrillDepth)
	}
	if len(res.Bore) != 1 {
		t.Fatalf("bore candidates = %v, want 1", res.Bore)
	}
	if !almostEqual(res.Bore[0].Value, 4.886) {
		t.Fatalf("bore value = %v, want 4.886", res.Bore[0].Value)
	}
	if !res.Bore[0].TrustDepth {
		t.Fatalf("full-depth candidate should be depth-trusted")
	}
}

// 快速行上的坐标不产生任何候选
func TestExtractNoCandidateFromRapid(t *testing.T) {
	res := extractLines(t, 0,
		"G01 Z-1.5 F0.008",
		"X2.5",
		"G00 X4.886 Z-1.5",
		"G00 X6.0",
	)

	for _, c := range res.Bore {
		if almostEqual(c.Value, 4.886) || almostEqual(c.Value, 6.0) {
			t.Fatalf("rapid-line value leaked into candidates: %v", c)
		}
	}
}

// 中途粗车停点（未达 95% 钻深）不收
func TestExtractRoughingStopsExcluded(t *testing.T) {
	res := extractLines(t, 0,
		"G01 Z-1.65 F0.008", // 全钻深 1.65
		"G00 Z0.1",
		"G01 Z-0.8 F0.01", // 粗车中途停点
		"X2.3",
		"G01 Z-1.62", // 96% 深度
		"X4.886",
	)

	if len(res.Bore) != 1 {
		t.Fatalf("bore candidates = %+v, want only the full-depth one", res.Bore)
	}
	if !almostEqual(res.Bore[0].Value, 4.886) {
		t.Fatalf("bore value = %v, want 4.886", res.Bore[0].Value)
	}
}

// 浅深度的可信标记记录为低可信，并同时计入沉孔证据
func TestExtractShallowMarkerLowTrust(t *testing.T) {
	res := extractLines(t, 0,
		"G01 Z-1.5 F0.008",
		"G00 Z0.05",
		"G01 Z-0.1 F0.01",
		"X5.1 (CB)",
	)

	var marked *Candidate
	for i := range res.Bore {
		if res.Bore[i].TrustMarker {
			marked = &res.Bore[i]
		}
	}
	if marked == nil {
		t.Fatalf("shallow marker should still be recorded: %+v", res.Bore)
	}
	if marked.TrustDepth {
		t.Fatalf("shallow marker must not be depth-trusted")
	}
	if !marked.Shallow {
		t.Fatalf("shallow flag missing: %+v", marked)
	}

	if len(res.Counterbore) == 0 {
		t.Fatalf("shallow bore marker should feed counterbore evidence")
	}
}

func TestExtractHubOnlyOnFlippedFace(t *testing.T) {
	res := extractLines(t, 0,
		"T0101 (FACE TOOL)",
		"G01 X3.0 Z-0.2 F0.01", // 第一面，不收
		"M00 (FLIP PART)",
		"T0101 (FACE TOOL)",
		"G01 X2.815 Z-0.25 F0.01",
		"T0505 (CHAMFER)",
		"G01 X2.9 Z-0.05 F0.01", // 倒角刀之后，不收
	)

	if len(res.Hub) != 1 {
		t.Fatalf("hub candidates = %+v, want 1", res.Hub)
	}
	if !almostEqual(res.Hub[0].Value, 2.815) {
		t.Fatalf("hub value = %v, want 2.815", res.Hub[0].Value)
	}
}

func TestExtractWorkOffsets(t *testing.T) {
	res := extractLines(t, 0,
		"G154 P5",
		"(OFFSET 12)", // 注释里的游离数字不作偏置
		"G54.1 P7",
	)

	if len(res.WorkOffsets) != 2 {
		t.Fatalf("work offsets = %+v, want 2", res.WorkOffsets)
	}
	if res.WorkOffsets[0].Number != 5 || res.WorkOffsets[1].Number != 7 {
		t.Fatalf("offset numbers = %+v, want 5 and 7", res.WorkOffsets)
	}
}

// 标题厚度兜底：程序钻深缺失时按标题厚度建门限
func TestExtractTitleThicknessFallback(t *testing.T) {
	res := extractLines(t, 1.0,
		"G01 Z-0.98 F0.008", // 98% 标题厚度
		"X3.2",
	)

	if len(res.Bore) != 1 {
		t.Fatalf("bore candidates = %+v, want 1", res.Bore)
	}
}

package parser

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestParseTitleFull(t *testing.T) {
	spec := ParseTitle("5.0 X 1.25 6X5.5 CB 78.1 HUB 71.5 X .25 STEEL S-1")

	if !spec.OuterDiameter.Present || !almostEqual(spec.OuterDiameter.Value, 5.0) {
		t.Fatalf("outer diameter = %+v, want 5.0", spec.OuterDiameter)
	}
	if !spec.Thickness.Present || !almostEqual(spec.Thickness.Value, 1.25) {
		t.Fatalf("thickness = %+v, want 1.25", spec.Thickness)
	}
	if !spec.CenterBore.Present || !almostEqual(spec.CenterBore.Value, 78.1/25.4) {
		t.Fatalf("center bore = %+v, want %.4f", spec.CenterBore, 78.1/25.4)
	}
	if !spec.HubDiameter.Present || !almostEqual(spec.HubDiameter.Value, 71.5/25.4) {
		t.Fatalf("hub diameter = %+v, want %.4f", spec.HubDiameter, 71.5/25.4)
	}
	if !spec.HubHeight.Present || !almostEqual(spec.HubHeight.Value, 0.25) {
		t.Fatalf("hub height = %+v, want 0.25", spec.HubHeight)
	}
	if spec.Material != "STEEL" {
		t.Fatalf("material = %q, want STEEL", spec.Material)
	}
	if !spec.HasKeyword("HUB") {
		t.Fatalf("expected HUB keyword, got %v", spec.Keywords)
	}
}

// 型号后缀的尾缀数字（S-1）不得被误读为厚度
func TestParseTitleDesignationSuffixNotThickness(t *testing.T) {
	spec := ParseTitle("1.25 STEEL RING S-1")

	if !spec.Thickness.Present {
		t.Fatalf("thickness unresolved: %+v", spec)
	}
	if !almostEqual(spec.Thickness.Value, 1.25) {
		t.Fatalf("thickness = %v, want 1.25", spec.Thickness.Value)
	}
	if spec.Material != "STEEL" {
		t.Fatalf("material = %q, want STEEL", spec.Material)
	}
	if !spec.HasKeyword("RING") {
		t.Fatalf("expected RING keyword, got %v", spec.Keywords)
	}
}

func TestParseTitleBoltPatternNotDimensions(t *testing.T) {
	// 5X114.3 是孔型（5 孔 114.3mm 分布圆），不是外径X厚度
	spec := ParseTitle("6.0 X 2.0 5X114.3 CB 108.1")

	if !almostEqual(spec.OuterDiameter.Value, 6.0) {
		t.Fatalf("outer diameter = %v, want 6.0", spec.OuterDiameter.Value)
	}
	if !almostEqual(spec.Thickness.Value, 2.0) {
		t.Fatalf("thickness = %v, want 2.0", spec.Thickness.Value)
	}
	if !almostEqual(spec.CenterBore.Value, 108.1/25.4) {
		t.Fatalf("center bore = %v, want %.4f", spec.CenterBore.Value, 108.1/25.4)
	}
}

func TestParseTitleCounterbore(t *testing.T) {
	spec := ParseTitle("5.5 X 1.0 6X5.5 CB 78.1 C'BORE 3.5 STEP")

	if !spec.Counterbore.Present || !almostEqual(spec.Counterbore.Value, 3.5) {
		t.Fatalf("counterbore = %+v, want 3.5", spec.Counterbore)
	}
	if !spec.HasKeyword("STEP") {
		t.Fatalf("expected STEP keyword, got %v", spec.Keywords)
	}
}

func TestParseTitleInchCenterBore(t *testing.T) {
	// 8 以下的孔径按英寸处理
	spec := ParseTitle("5.0 X 1.0 6X5.5 CB 4.89")

	if !almostEqual(spec.CenterBore.Value, 4.89) {
		t.Fatalf("center bore = %v, want 4.89", spec.CenterBore.Value)
	}
}

func TestParseTitleEmpty(t *testing.T) {
	spec := ParseTitle("")

	if spec.Thickness.Present || spec.CenterBore.Present {
		t.Fatalf("empty title should resolve nothing: %+v", spec)
	}
}

func TestParseTitleHubCentricKeyword(t *testing.T) {
	spec := ParseTitle("6.0 X 1.5 6X5.5 CB 108.1 HUB CENTRIC")

	if !spec.HasKeyword("HUB_CENTRIC") {
		t.Fatalf("expected HUB_CENTRIC keyword, got %v", spec.Keywords)
	}
}

package classifier

import (
	"testing"

	"gcide/internal/model"
	"gcide/internal/parser"
)

func tagged(t *testing.T, lines ...string) []parser.TaggedLine {
	t.Helper()
	p := model.NewProgramText("test.nc", lines)
	return parser.NewContextTracker().Scan(p)
}

// 带台阶形状特征的刀路：中间深度直径 3.5，全深直径 2.5
func steppedToolpath(t *testing.T) []parser.TaggedLine {
	t.Helper()
	return tagged(t,
		"G01 Z-0.5 F0.01",
		"X3.5",
		"G01 Z-1.0",
		"X2.5",
	)
}

// 轮毂关键词压过台阶形状特征
func TestClassifyHubKeywordOverridesShape(t *testing.T) {
	spec := parser.ParseTitle("6.0 X 1.0 6X5.5 CB 108.1 HUB CENTRIC")
	lines := steppedToolpath(t)

	family := Classify(spec, lines, 1.0)
	if family != model.FamilyHubCentric {
		t.Fatalf("family = %s, want hub_centric", family)
	}
}

func TestClassifySteppedShape(t *testing.T) {
	spec := parser.ParseTitle("6.0 X 1.0 6X5.5 CB 108.1")
	lines := steppedToolpath(t)

	family := Classify(spec, lines, 1.0)
	if family != model.FamilyStepped {
		t.Fatalf("family = %s, want stepped", family)
	}
}

func TestClassifyTwoPiece(t *testing.T) {
	lug := parser.ParseTitle("6.0 X 2.0 8X6.5 LUG TYPE")
	if family := Classify(lug, nil, 0); family != model.FamilyTwoPieceLug {
		t.Fatalf("family = %s, want two_piece_lug", family)
	}

	stud := parser.ParseTitle("6.0 X 2.0 8X6.5 STUD TYPE")
	if family := Classify(stud, nil, 0); family != model.FamilyTwoPieceStud {
		t.Fatalf("family = %s, want two_piece_stud", family)
	}
}

func TestClassifySteelRing(t *testing.T) {
	spec := parser.ParseTitle("1.25 STEEL RING S-1")

	family := Classify(spec, nil, 0)
	if family != model.FamilySteelRing {
		t.Fatalf("family = %s, want steel_ring", family)
	}
}

func TestClassifyDefaultStandard(t *testing.T) {
	spec := parser.ParseTitle("5.0 X 1.25 6X5.5 CB 78.1")

	// 无台阶：中间深度与全深直径一致
	lines := tagged(t,
		"G01 Z-1.0 F0.01",
		"X3.07",
	)

	family := Classify(spec, lines, 1.0)
	if family != model.FamilyStandard {
		t.Fatalf("family = %s, want standard", family)
	}
}

// 族参数完备性：每个族都必须有可用的夹具表名
func TestFamilyParamsComplete(t *testing.T) {
	for _, f := range model.AllFamilies() {
		params := f.Params()
		if params.FixtureTable == "" {
			t.Fatalf("family %s has no fixture table", f)
		}
	}
}

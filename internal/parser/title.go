package parser

import (
	"regexp"
	"strconv"
	"strings"

	"gcide/internal/model"
)

// 标题行解析规则，按序匹配，顺序即优先级：
// 先取走带标签的尺寸（HUB/CB/C'BORE），再剔除型号后缀与螺栓孔型，
// 最后才对剩余文本做 外径X厚度 与游离数值匹配。
var (
	reDesignation = regexp.MustCompile(`\b[A-Z]{1,3}-\d+[A-Z]?\b`)
	reHub         = regexp.MustCompile(`\bHUB\s+(\d+(?:\.\d+)?)(?:\s*X\s*(\.\d+|\d+(?:\.\d+)?))?`)
	reCB          = regexp.MustCompile(`\bCB\s*(\.\d+|\d+(?:\.\d+)?)`)
	reCounterbore = regexp.MustCompile(`\bC'?BORE\s*(\.\d+|\d+(?:\.\d+)?)`)
	rePair        = regexp.MustCompile(`(\.\d+|\d+(?:\.\d+)?)\s*X\s*(\.\d+|\d+(?:\.\d+)?)`)
	reLooseNum    = regexp.MustCompile(`(\.\d+|\d+\.\d+)`)
)

// ParseTitle 解析标题行为零件规格
//
// 标题惯例示例：
//
//	5.0 X 1.25 6X5.5 CB 78.1 HUB 71.5 X .25 STEEL S-1
//	1.25 STEEL RING S-1
//
// 孔径/轮毂直径按行业惯例常以毫米书写，数值大于 8 时按毫米换算为英寸。
func ParseTitle(raw string) *model.TitleSpec {
	spec := &model.TitleSpec{Raw: raw}

	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" {
		return spec
	}

	spec.Material = detectMaterial(text)
	spec.Keywords = detectKeywords(text)

	// 型号后缀（S-1 / SP-4 等）先剔除，
	// 避免尾缀数字被误读为厚度（见对应测试）
	text = blankAll(text, reDesignation)

	// 带标签的尺寸优先取走
	if m := reHub.FindStringSubmatchIndex(text); m != nil {
		dia := parseNum(text[m[2]:m[3]])
		spec.HubDiameter = model.Spec(boreToInches(dia))
		if m[4] >= 0 {
			spec.HubHeight = model.Spec(parseNum(text[m[4]:m[5]]))
		}
		text = blankSpan(text, m[0], m[1])
	}
	if m := reCB.FindStringSubmatchIndex(text); m != nil {
		spec.CenterBore = model.Spec(boreToInches(parseNum(text[m[2]:m[3]])))
		text = blankSpan(text, m[0], m[1])
	}
	if m := reCounterbore.FindStringSubmatchIndex(text); m != nil {
		spec.Counterbore = model.Spec(boreToInches(parseNum(text[m[2]:m[3]])))
		text = blankSpan(text, m[0], m[1])
	}

	// 数对匹配：区分 外径X厚度 与 螺栓孔型（6X5.5）
	// 厚度不超过 4 英寸；第二值更大的数对视为孔型，直接剔除
	for {
		m := rePair.FindStringSubmatchIndex(text)
		if m == nil {
			break
		}
		first := parseNum(text[m[2]:m[3]])
		second := parseNum(text[m[4]:m[5]])
		text = blankSpan(text, m[0], m[1])

		if second > 4.0 {
			// 螺栓孔型（如 6X5.5 / 5X114.3），丢弃
			continue
		}
		if !spec.Thickness.Present {
			spec.OuterDiameter = model.Spec(first)
			spec.Thickness = model.Spec(second)
		}
	}

	// 游离数值兜底：先厚度后外径
	for _, loc := range reLooseNum.FindAllStringIndex(text, -1) {
		v := parseNum(text[loc[0]:loc[1]])
		switch {
		case !spec.Thickness.Present && v >= 0.2 && v <= 4.0:
			spec.Thickness = model.Spec(v)
		case !spec.OuterDiameter.Present && v > 4.0 && v <= 16.0:
			spec.OuterDiameter = model.Spec(v)
		}
	}

	return spec
}

// boreToInches 孔径/轮毂直径毫米启发式换算
// 英制零件直径极少超过 8 英寸，超过即按毫米处理
func boreToInches(v float64) float64 {
	if v > 8.0 {
		return model.MMToInch(v)
	}
	return v
}

func detectMaterial(text string) string {
	if strings.Contains(text, "STEEL") {
		return "STEEL"
	}
	if strings.Contains(text, "ALUM") || strings.Contains(text, "BILLET") ||
		strings.Contains(text, "6061") {
		return "ALUMINUM"
	}
	return ""
}

func detectKeywords(text string) []string {
	var kws []string
	add := func(kw string) {
		for _, k := range kws {
			if k == kw {
				return
			}
		}
		kws = append(kws, kw)
	}

	if strings.Contains(text, "HUB") {
		add("HUB")
	}
	if strings.Contains(text, "HUB CENTRIC") || strings.Contains(text, "HUBCENTRIC") ||
		hasToken(text, "HC") {
		add("HUB_CENTRIC")
	}
	if strings.Contains(text, "LUG") {
		add("LUG")
	}
	if strings.Contains(text, "STUD") {
		add("STUD")
	}
	if strings.Contains(text, "STEP") {
		add("STEP")
	}
	if hasToken(text, "RING") {
		add("RING")
	}
	return kws
}

// hasToken 按独立词匹配（避免 HC 误中 INCH 等）
func hasToken(text, token string) bool {
	for _, f := range strings.Fields(text) {
		if f == token {
			return true
		}
	}
	return false
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// blankAll 将全部匹配段替换为空格，保持索引稳定
func blankAll(text string, re *regexp.Regexp) string {
	for {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return text
		}
		text = blankSpan(text, loc[0], loc[1])
	}
}

func blankSpan(text string, start, end int) string {
	return text[:start] + strings.Repeat(" ", end-start) + text[end:]
}

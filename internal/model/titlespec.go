package model

import "strings"

// TitleSpec 标题行解析出的零件规格（解析一次，之后只读）
type TitleSpec struct {
	Raw string `json:"raw"`

	OuterDiameter SpecValue `json:"outerDiameter"` // 外径
	Thickness     SpecValue `json:"thickness"`     // 厚度
	CenterBore    SpecValue `json:"centerBore"`    // 中心孔
	HubDiameter   SpecValue `json:"hubDiameter"`   // 轮毂直径
	HubHeight     SpecValue `json:"hubHeight"`     // 轮毂高度
	Counterbore   SpecValue `json:"counterbore"`   // 沉孔直径

	Material string   `json:"material"` // STEEL / ALUMINUM / ""
	Keywords []string `json:"keywords"` // 规范化后的族关键词
}

// HasKeyword 判断标题是否含指定关键词（不区分大小写）
func (t *TitleSpec) HasKeyword(kw string) bool {
	kw = strings.ToUpper(kw)
	for _, k := range t.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// HasAnyKeyword 判断标题是否含任意一个关键词
func (t *TitleSpec) HasAnyKeyword(kws ...string) bool {
	for _, kw := range kws {
		if t.HasKeyword(kw) {
			return true
		}
	}
	return false
}

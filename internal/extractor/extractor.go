package extractor

import (
	"strings"

	"gcide/internal/config"
	"gcide/internal/parser"
)

// DimensionKind 候选提取的目标尺寸类别
type DimensionKind string

const (
	KindBore        DimensionKind = "bore"        // 中心孔
	KindHub         DimensionKind = "hub"         // 翻面外圆/轮毂直径
	KindCounterbore DimensionKind = "counterbore" // 沉孔
)

// Candidate 候选读数（只追加，由消歧引擎消费）
type Candidate struct {
	Value       float64                 `json:"value"` // 英寸
	Line        int                     `json:"line"`  // 源行索引
	Context     parser.MachiningContext `json:"context"`
	TrustMarker bool                    `json:"trustMarker"` // 行内注释点名该尺寸
	TrustDepth  bool                    `json:"trustDepth"`  // 达到可信深度比例
	Shallow     bool                    `json:"shallow"`     // 处于倒角浅深度带
}

// OffsetRef 工作偏置引用
type OffsetRef struct {
	Number int `json:"number"`
	Line   int `json:"line"`
}

// Result 一次提取的全部候选
type Result struct {
	DrillDepth     float64     `json:"drillDepth"` // 全钻深（正值英寸，0 表示无进给切深）
	DrillDepthLine int         `json:"drillDepthLine"`
	Bore           []Candidate `json:"bore"`
	Hub            []Candidate `json:"hub"`
	Counterbore    []Candidate `json:"counterbore"`
	WorkOffsets    []OffsetRef `json:"workOffsets"`
}

// Extractor 按规则表从分类行中提取候选
type Extractor struct {
	cfg config.EngineConfig
}

// New 创建提取器
func New(cfg config.EngineConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract 对分类行序列执行全部提取规则
//
// titleThickness 为标题厚度（0 表示标题未给出），
// 用于孔径候选的深度门限兜底。
func (e *Extractor) Extract(lines []parser.TaggedLine, titleThickness float64) *Result {
	res := &Result{}

	res.DrillDepth, res.DrillDepthLine = parser.FullDrillDepth(lines)

	e.collectBore(res, lines, titleThickness)
	e.collectHub(res, lines)
	e.collectCounterbore(res, lines)
	e.collectWorkOffsets(res, lines)

	return res
}

// collectBore 中心孔候选
//
// 仅收进给行：达到 ≥比例门限 全钻深（或标题厚度，二者先到为准）的 X 值；
// 中途粗车停点与快速回退直径一律排除。
// 点名孔径的可信标记任意深度都记录，但浅深度（倒角带）标低可信——
// 浅倒角惯例上标注的是沉孔/台肩边缘而非功能孔。
func (e *Extractor) collectBore(res *Result, lines []parser.TaggedLine, titleThickness float64) {
	for _, tl := range lines {
		if tl.Context.Motion != parser.MotionFeed || !tl.HasX {
			continue
		}
		if !tl.Context.DepthKnown || tl.Context.Depth >= 0 {
			continue
		}

		depth := -tl.Context.Depth
		deepEnough := e.depthTrusted(depth, res.DrillDepth, titleThickness)
		marked := markerKind(tl.Comment) == KindBore

		if !deepEnough && !marked {
			continue
		}

		res.Bore = append(res.Bore, Candidate{
			Value:       tl.X,
			Line:        tl.Index,
			Context:     tl.Context,
			TrustMarker: marked,
			TrustDepth:  deepEnough,
			Shallow:     e.inShallowBand(depth),
		})
	}
}

// collectHub 翻面外圆/轮毂直径候选
//
// 仅在翻面后、端面/车刀在位时收集；一旦选上倒角刀立即停止收集
func (e *Extractor) collectHub(res *Result, lines []parser.TaggedLine) {
	flipped := false
	for _, tl := range lines {
		if tl.Context.Face == parser.FaceFlipped {
			flipped = true
		}
		if !flipped {
			continue
		}
		if tl.IsToolChange && tl.Context.ToolRole == parser.RoleChamfer {
			return
		}

		role := tl.Context.ToolRole
		if role != parser.RoleFace && role != parser.RoleTurn {
			continue
		}
		if tl.Context.Motion != parser.MotionFeed || !tl.HasX {
			continue
		}

		depth := 0.0
		if tl.Context.DepthKnown && tl.Context.Depth < 0 {
			depth = -tl.Context.Depth
		}

		res.Hub = append(res.Hub, Candidate{
			Value:       tl.X,
			Line:        tl.Index,
			Context:     tl.Context,
			TrustMarker: markerKind(tl.Comment) == KindHub,
			TrustDepth:  true,
			Shallow:     e.inShallowBand(depth),
		})
	}
}

// collectCounterbore 沉孔候选：点名沉孔的标记行，
// 外加浅深度带上点名"孔径"的标记（惯例指沉孔/台肩边缘）
func (e *Extractor) collectCounterbore(res *Result, lines []parser.TaggedLine) {
	for _, tl := range lines {
		if tl.Context.Motion != parser.MotionFeed || !tl.HasX {
			continue
		}

		depth := 0.0
		if tl.Context.DepthKnown && tl.Context.Depth < 0 {
			depth = -tl.Context.Depth
		}

		kind := markerKind(tl.Comment)
		isCounterbore := kind == KindCounterbore
		isShallowBoreMark := kind == KindBore && e.inShallowBand(depth)

		if !isCounterbore && !isShallowBoreMark {
			continue
		}

		res.Counterbore = append(res.Counterbore, Candidate{
			Value:       tl.X,
			Line:        tl.Index,
			Context:     tl.Context,
			TrustMarker: isCounterbore,
			TrustDepth:  true,
			Shallow:     e.inShallowBand(depth),
		})
	}
}

// collectWorkOffsets 工作偏置号：仅认偏置选择指令的数字后缀
func (e *Extractor) collectWorkOffsets(res *Result, lines []parser.TaggedLine) {
	for _, tl := range lines {
		if tl.WorkOffset > 0 {
			res.WorkOffsets = append(res.WorkOffsets, OffsetRef{
				Number: tl.WorkOffset,
				Line:   tl.Index,
			})
		}
	}
}

// depthTrusted 判断深度是否达到可信门限
func (e *Extractor) depthTrusted(depth, drillDepth, titleThickness float64) bool {
	if drillDepth > 0 && depth >= e.cfg.DepthTrustRatio*drillDepth {
		return true
	}
	if titleThickness > 0 && depth >= e.cfg.DepthTrustRatio*titleThickness {
		return true
	}
	return false
}

// inShallowBand 判断深度是否处于倒角浅深度带
func (e *Extractor) inShallowBand(depth float64) bool {
	return depth >= e.cfg.ShallowMin && depth <= e.cfg.ShallowMax
}

// markerKind 判断行内注释点名的尺寸类别
func markerKind(comment string) DimensionKind {
	if comment == "" {
		return ""
	}
	c := strings.ToUpper(comment)

	// 沉孔先于孔径判定（"CBORE" 含 "BORE"）
	counterbore := []string{"CBORE", "C'BORE", "COUNTERBORE", "COUNTER BORE", "SHELF"}
	for _, kw := range counterbore {
		if strings.Contains(c, kw) {
			return KindCounterbore
		}
	}

	hub := []string{"HUB", "OUTER BORE", "REGISTER", "O.B."}
	for _, kw := range hub {
		if strings.Contains(c, kw) {
			return KindHub
		}
	}

	bore := []string{"CENTER BORE", "CB", "BORE", "I.D."}
	for _, kw := range bore {
		if strings.Contains(c, kw) {
			return KindBore
		}
	}

	return ""
}

package engine

import (
	"fmt"

	"gcide/internal/classifier"
	"gcide/internal/config"
	"gcide/internal/extractor"
	"gcide/internal/model"
	"gcide/internal/parser"
	"gcide/internal/resolver"
	"gcide/internal/validator"
)

// Engine 程序语义解析引擎
//
// 流水线固定为：标题解析 → 行分类 → 候选提取 → 消歧 → 族判定 → 交叉校验。
// 引擎无内部状态，同一输入重复解析产出相同结果，可跨协程共享。
type Engine struct {
	cfg       config.EngineConfig
	extractor *extractor.Extractor
	resolver  *resolver.Resolver
	validator *validator.Validator
}

// New 创建解析引擎
func New(cfg config.EngineConfig) *Engine {
	return &Engine{
		cfg:       cfg,
		extractor: extractor.New(cfg),
		resolver:  resolver.New(cfg),
		validator: validator.New(cfg),
	}
}

// NewDefault 使用默认阈值创建解析引擎
func NewDefault() *Engine {
	return New(config.DefaultEngineConfig())
}

// ParseString 解析整段程序文本
func (e *Engine) ParseString(name, text string) *model.ParseResult {
	return e.Parse(model.NewProgramFromString(name, text))
}

// Parse 解析单个程序，返回完整解析结果
//
// 任何输入都产出结果对象而非错误：不可解析的输入
// 以 CRITICAL 结论 + 全部尺寸未解析的形式表达。
func (e *Engine) Parse(p *model.ProgramText) *model.ParseResult {
	res := &model.ParseResult{
		Family: model.FamilyStandard,
	}
	if p != nil {
		res.ProgramName = p.Name()
	}

	if p == nil || p.IsEmpty() {
		res.AddFinding(model.SeverityCritical, model.CodeUnparseableInput,
			"程序为空或无任何有效内容，全部尺寸保持未解析")
		res.Status = res.ComputeStatus()
		return res
	}

	spec := parser.ParseTitle(p.TitleLine())
	res.Title = spec

	lines := parser.NewContextTracker().Scan(p)
	if len(lines) == 0 {
		res.AddFinding(model.SeverityCritical, model.CodeUnparseableInput,
			"程序无任何可分类的指令行")
		res.Status = res.ComputeStatus()
		return res
	}

	titleThickness := 0.0
	if spec.Thickness.Present {
		titleThickness = spec.Thickness.Value
	}

	ext := e.extractor.Extract(lines, titleThickness)

	if ext.DrillDepth > 0 {
		res.DrillDepth = model.ResolvedDim(ext.DrillDepth, model.SourceGCode, ext.DrillDepthLine)
	}

	res.Family = classifier.Classify(spec, lines, ext.DrillDepth)

	// 外径与厚度以标题为准；程序刀路反推这两者过于间接
	if spec.OuterDiameter.Present {
		res.Dimensions.OuterDiameter = model.ResolvedDim(spec.OuterDiameter.Value, model.SourceTitle, 0)
	}
	if spec.Thickness.Present {
		res.Dimensions.Thickness = model.ResolvedDim(spec.Thickness.Value, model.SourceTitle, 0)
	}

	e.resolveDimensions(res, spec, ext)

	e.validator.Validate(res, ext.WorkOffsets)
	e.validator.CrashScan(res, lines)

	res.Status = res.ComputeStatus()
	return res
}

// resolveDimensions 逐尺寸消歧，已接受值即时进入后续尺寸的排除带比对
func (e *Engine) resolveDimensions(res *model.ParseResult, spec *model.TitleSpec, ext *extractor.Result) {
	var cbWarned, hubWarned, cbrWarned bool
	res.Dimensions.CenterBore, cbWarned = e.resolveOne(res, "中心孔", ext.Bore, spec.CenterBore)
	res.Dimensions.HubDiameter, hubWarned = e.resolveOne(res, "轮毂直径", ext.Hub, spec.HubDiameter)
	res.Dimensions.Counterbore, cbrWarned = e.resolveOne(res, "沉孔", ext.Counterbore, spec.Counterbore)

	// 轮毂高度标题独有；未给出时留给总高复核做未标注轮毂推断
	if spec.HubHeight.Present {
		res.Dimensions.HubHeight = model.ResolvedDim(spec.HubHeight.Value, model.SourceTitle, 0)
	}

	params := res.Family.Params()

	// 族预期缺口告警；消歧阶段已告警的尺寸不再重复
	if !res.Dimensions.CenterBore.Resolved && !cbWarned && res.Family != model.FamilySteelRing {
		res.AddFinding(model.SeverityWarning, model.CodeDimUnresolved,
			"中心孔既无程序候选也无标题规格，保持未解析")
	}
	if !res.Dimensions.HubDiameter.Resolved && !hubWarned && res.Family == model.FamilyHubCentric {
		res.AddFinding(model.SeverityWarning, model.CodeDimUnresolved,
			"族为轮毂定心但轮毂直径未解析")
	}
	if !res.Dimensions.Counterbore.Resolved && !cbrWarned && params.ExpectsCounterbore {
		res.AddFinding(model.SeverityWarning, model.CodeDimUnresolved,
			fmt.Sprintf("族 %s 预期存在沉孔但沉孔未解析", res.Family))
	}
}

// resolveOne 单尺寸消歧：程序候选优先，消歧失败或无候选时回退标题规格
func (e *Engine) resolveOne(res *model.ParseResult, name string, cands []extractor.Candidate, spec model.SpecValue) (model.Dimension, bool) {
	dim, finding := e.resolver.Resolve(name, cands, spec, res.Dimensions.ResolvedValues())
	warned := finding != nil
	if warned {
		res.Findings = append(res.Findings, *finding)
	}
	if dim.Resolved {
		return dim, warned
	}
	if spec.Present {
		return model.ResolvedDim(spec.Value, model.SourceTitle, 0), warned
	}
	return model.UnresolvedDim(), warned
}

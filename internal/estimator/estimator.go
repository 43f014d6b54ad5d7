package estimator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"gcide/internal/model"
)

// SampleSource 历史尺寸样本来源（目录库实现此接口）
type SampleSource interface {
	DimensionSamples(family model.PartFamily, column string) ([]float64, error)
}

// Estimator 统计估算协作方：用同族历史解析值回填未解析尺寸
//
// 估算值只在样本充足且离散度足够低时给出，
// 且永远以 estimated 来源标注，不与解析值混淆。
type Estimator struct {
	source SampleSource

	// MinSamples 给出估算所需的最少同族样本数
	MinSamples int
	// MaxSpread 允许的最大变异系数（标准差/均值）
	MaxSpread float64
}

// New 创建估算器
func New(source SampleSource) *Estimator {
	return &Estimator{
		source:     source,
		MinSamples: 5,
		MaxSpread:  0.05,
	}
}

// 可估算尺寸与目录库列的对应
var estimableColumns = []struct {
	column string
	label  string
	dim    func(*model.Dimensions) *model.Dimension
}{
	{"center_bore", "中心孔", func(d *model.Dimensions) *model.Dimension { return &d.CenterBore }},
	{"hub_diameter", "轮毂直径", func(d *model.Dimensions) *model.Dimension { return &d.HubDiameter }},
	{"hub_height", "轮毂高度", func(d *model.Dimensions) *model.Dimension { return &d.HubHeight }},
}

// FillUnresolved 对结果中未解析的尺寸尝试统计回填
//
// 只回填数值，不改动既有结论与状态；每次成功回填追加一条 INFO。
func (e *Estimator) FillUnresolved(res *model.ParseResult) error {
	for _, ec := range estimableColumns {
		dim := ec.dim(&res.Dimensions)
		if dim.Resolved {
			continue
		}

		value, n, ok, err := e.estimate(res.Family, ec.column)
		if err != nil {
			return fmt.Errorf("estimate %s failed: %w", ec.column, err)
		}
		if !ok {
			continue
		}

		*dim = model.Dimension{
			Value:    value,
			Resolved: true,
			Source:   model.SourceEstimated,
		}
		res.AddFinding(model.SeverityInfo, model.CodeDimUnresolved,
			fmt.Sprintf("%s按同族 %d 条历史记录估算为 %.3f\"（仅供排查，不参与校验）",
				ec.label, n, value))
	}
	return nil
}

// estimate 单尺寸估算：样本均值，离散度超限时拒绝给值
func (e *Estimator) estimate(family model.PartFamily, column string) (value float64, n int, ok bool, err error) {
	samples, err := e.source.DimensionSamples(family, column)
	if err != nil {
		return 0, 0, false, err
	}
	if len(samples) < e.MinSamples {
		return 0, 0, false, nil
	}

	mean, std := stat.MeanStdDev(samples, nil)
	if mean <= 0 || std/mean > e.MaxSpread {
		return 0, 0, false, nil
	}

	return mean, len(samples), true, nil
}

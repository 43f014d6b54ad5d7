package model

// PartFamily 零件结构族
type PartFamily string

const (
	FamilyStandard     PartFamily = "standard"       // 普通垫片
	FamilyHubCentric   PartFamily = "hub_centric"    // 轮毂定心
	FamilyStepped      PartFamily = "stepped"        // 台阶/沉孔
	FamilyTwoPieceLug  PartFamily = "two_piece_lug"  // 两件式（螺母）
	FamilyTwoPieceStud PartFamily = "two_piece_stud" // 两件式（螺柱）
	FamilySteelRing    PartFamily = "steel_ring"     // 钢环
)

// HeightRange 高度区间（英寸，闭区间）
type HeightRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains 判断值是否落在区间内
func (r HeightRange) Contains(v float64) bool {
	return !r.IsEmpty() && v >= r.Min && v <= r.Max
}

// IsEmpty 空区间表示该族不适用此参数
func (r HeightRange) IsEmpty() bool {
	return r.Min == 0 && r.Max == 0
}

// FamilyParams 族参数，供提取、消歧与交叉校验规则选择使用
type FamilyParams struct {
	// LegalHubRange 合法轮毂高度区间；空区间表示该族不应有轮毂
	LegalHubRange HeightRange
	// UnstatedHubRange 标题惯例上可省略的轮毂高度区间；
	// 非空时总高校验先尝试未标注轮毂推断而不是直接报错
	UnstatedHubRange HeightRange
	// ExpectsCounterbore 该族是否预期存在沉孔
	ExpectsCounterbore bool
	// FixtureTable 适用的夹具偏置表名
	FixtureTable string
}

// Params 返回族参数，新增族时此处必须补全
func (f PartFamily) Params() FamilyParams {
	switch f {
	case FamilyHubCentric:
		return FamilyParams{
			LegalHubRange:      HeightRange{Min: 0.15, Max: 1.50},
			UnstatedHubRange:   HeightRange{Min: 0.15, Max: 0.50},
			ExpectsCounterbore: false,
			FixtureTable:       "hub",
		}
	case FamilyStepped:
		return FamilyParams{
			LegalHubRange:      HeightRange{},
			UnstatedHubRange:   HeightRange{},
			ExpectsCounterbore: true,
			FixtureTable:       "standard",
		}
	case FamilyTwoPieceLug:
		return FamilyParams{
			LegalHubRange:      HeightRange{Min: 0.15, Max: 1.00},
			UnstatedHubRange:   HeightRange{},
			ExpectsCounterbore: true,
			FixtureTable:       "two_piece",
		}
	case FamilyTwoPieceStud:
		return FamilyParams{
			LegalHubRange:      HeightRange{Min: 0.15, Max: 1.00},
			UnstatedHubRange:   HeightRange{},
			ExpectsCounterbore: false,
			FixtureTable:       "two_piece",
		}
	case FamilySteelRing:
		return FamilyParams{
			LegalHubRange:      HeightRange{Min: 0.10, Max: 0.60},
			UnstatedHubRange:   HeightRange{Min: 0.20, Max: 0.30},
			ExpectsCounterbore: false,
			FixtureTable:       "ring",
		}
	default:
		return FamilyParams{
			LegalHubRange:      HeightRange{},
			UnstatedHubRange:   HeightRange{},
			ExpectsCounterbore: false,
			FixtureTable:       "standard",
		}
	}
}

// AllFamilies 全部已知族（用于统计与展示）
func AllFamilies() []PartFamily {
	return []PartFamily{
		FamilyStandard,
		FamilyHubCentric,
		FamilyStepped,
		FamilyTwoPieceLug,
		FamilyTwoPieceStud,
		FamilySteelRing,
	}
}

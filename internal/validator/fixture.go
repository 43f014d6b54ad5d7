package validator

// FixtureTable 偏置号 → 期望装夹总高（英寸）
//
// 车间惯例：工作偏置号与零件总高一一对应，偏置选错几乎必然撞刀或车废。
// 偏置校验比对的是对账后的总高（厚度+实际轮毂高），而非标题裸厚度，
// 避免在带轮毂的族上产生系统性误报。
type FixtureTable map[int]float64

// fixtureTables 各族适用的偏置表
var fixtureTables = map[string]FixtureTable{
	"standard": {
		1: 0.25, 2: 0.375, 3: 0.5, 4: 0.625, 5: 0.75, 6: 1.0,
		7: 1.25, 8: 1.5, 9: 1.75, 10: 2.0, 11: 2.5, 12: 3.0,
	},
	"hub": {
		1: 0.5, 2: 0.75, 3: 1.0, 4: 1.25, 5: 1.5, 6: 1.75,
		7: 2.0, 8: 2.25, 9: 2.5, 10: 2.75, 11: 3.0, 12: 3.5,
	},
	"two_piece": {
		1: 1.0, 2: 1.25, 3: 1.5, 4: 1.75, 5: 2.0, 6: 2.25,
		7: 2.5, 8: 2.75, 9: 3.0, 10: 3.25, 11: 3.5, 12: 4.0,
	},
	"ring": {
		1: 0.75, 2: 1.0, 3: 1.25, 4: 1.5, 5: 1.75, 6: 2.0,
		7: 2.25, 8: 2.5, 9: 2.75, 10: 3.0, 11: 3.25, 12: 3.5,
	},
}

// LookupFixture 查表：返回偏置号的期望总高
func LookupFixture(table string, offset int) (float64, bool) {
	t, ok := fixtureTables[table]
	if !ok {
		return 0, false
	}
	h, ok := t[offset]
	return h, ok
}

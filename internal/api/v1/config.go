package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gcide/internal/engine"
)

// GetConfig 获取引擎阈值配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	h.mu.RLock()
	cfg := h.engineCfg
	h.mu.RUnlock()

	c.JSON(http.StatusOK, cfg)
}

// UpdateConfigRequest 阈值热更新请求，只更新给出的字段
// 字段与 GET /api/config 返回的结构一一对应
type UpdateConfigRequest struct {
	DepthTrustRatio  *float64 `json:"depth_trust_ratio"`
	ShallowMin       *float64 `json:"shallow_min"`
	ShallowMax       *float64 `json:"shallow_max"`
	TightTolerance   *float64 `json:"tight_tolerance"`
	NearEqualBand    *float64 `json:"near_equal_band"`
	ExclusionBand    *float64 `json:"exclusion_band"`
	BreachAllowance  *float64 `json:"breach_allowance"`
	HeightTolerance  *float64 `json:"height_tolerance"`
	FixtureTolerance *float64 `json:"fixture_tolerance"`
	JawClearance     *float64 `json:"jaw_clearance"`
	SafeRetractZ     *float64 `json:"safe_retract_z"`

	Bore *BoreToleranceUpdate `json:"bore"`
}

// BoreToleranceUpdate 孔径方向性容差带热更新
type BoreToleranceUpdate struct {
	UndersizeCritical *float64 `json:"undersize_critical"`
	UndersizeWarning  *float64 `json:"undersize_warning"`
	OversizeCritical  *float64 `json:"oversize_critical"`
	OversizeWarning   *float64 `json:"oversize_warning"`
}

// UpdateConfig 热更新引擎阈值，引擎整体重建，进行中的解析不受影响
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	cfg := h.engineCfg
	if req.DepthTrustRatio != nil {
		cfg.DepthTrustRatio = *req.DepthTrustRatio
	}
	if req.ShallowMin != nil {
		cfg.ShallowMin = *req.ShallowMin
	}
	if req.ShallowMax != nil {
		cfg.ShallowMax = *req.ShallowMax
	}
	if req.TightTolerance != nil {
		cfg.TightTolerance = *req.TightTolerance
	}
	if req.NearEqualBand != nil {
		cfg.NearEqualBand = *req.NearEqualBand
	}
	if req.ExclusionBand != nil {
		cfg.ExclusionBand = *req.ExclusionBand
	}
	if req.BreachAllowance != nil {
		cfg.BreachAllowance = *req.BreachAllowance
	}
	if req.HeightTolerance != nil {
		cfg.HeightTolerance = *req.HeightTolerance
	}
	if req.FixtureTolerance != nil {
		cfg.FixtureTolerance = *req.FixtureTolerance
	}
	if req.JawClearance != nil {
		cfg.JawClearance = *req.JawClearance
	}
	if req.SafeRetractZ != nil {
		cfg.SafeRetractZ = *req.SafeRetractZ
	}
	if req.Bore != nil {
		if req.Bore.UndersizeCritical != nil {
			cfg.Bore.UndersizeCritical = *req.Bore.UndersizeCritical
		}
		if req.Bore.UndersizeWarning != nil {
			cfg.Bore.UndersizeWarning = *req.Bore.UndersizeWarning
		}
		if req.Bore.OversizeCritical != nil {
			cfg.Bore.OversizeCritical = *req.Bore.OversizeCritical
		}
		if req.Bore.OversizeWarning != nil {
			cfg.Bore.OversizeWarning = *req.Bore.OversizeWarning
		}
	}
	h.engineCfg = cfg
	h.engine = engine.New(cfg)
	h.mu.Unlock()

	c.JSON(http.StatusOK, cfg)
}

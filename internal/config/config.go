package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server" json:"server"`
	Data   DataConfig   `toml:"data" json:"data"`
	Engine EngineConfig `toml:"engine" json:"engine"`
	Batch  BatchConfig  `toml:"batch" json:"batch"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port" json:"port"`
	DevMode bool `toml:"dev_mode" json:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// BatchConfig 批量解析配置
type BatchConfig struct {
	Workers    int      `toml:"workers" json:"workers"`    // 工作协程数，0 表示按 CPU 数
	Extensions []string `toml:"extensions" json:"extensions"` // 识别为数控程序的扩展名
}

// EngineConfig 解析引擎阈值配置
//
// 这些阈值来自对历史程序库的经验归纳而非物理推导，
// 部署到新程序库前应按代表性样本重新校准。
type EngineConfig struct {
	// DepthTrustRatio 孔径候选/可信标记要求达到的全钻深比例
	DepthTrustRatio float64 `toml:"depth_trust_ratio" json:"depth_trust_ratio"`
	// ShallowMin/ShallowMax 倒角浅深度带（英寸）；此带内的标记按低可信处理
	ShallowMin float64 `toml:"shallow_min" json:"shallow_min"`
	ShallowMax float64 `toml:"shallow_max" json:"shallow_max"`
	// TightTolerance 候选与规格的绝对贴合容差（英寸），命中即直接采纳
	TightTolerance float64 `toml:"tight_tolerance" json:"tight_tolerance"`
	// NearEqualBand 近似相等带（英寸），此带内才允许可信标记参与决胜
	NearEqualBand float64 `toml:"near_equal_band" json:"near_equal_band"`
	// ExclusionBand 候选与其他已解析尺寸的巧合排除带（英寸）
	ExclusionBand float64 `toml:"exclusion_band" json:"exclusion_band"`
	// BreachAllowance 钻透余量（英寸）
	BreachAllowance float64 `toml:"breach_allowance" json:"breach_allowance"`
	// HeightTolerance 总高比对容差（英寸）
	HeightTolerance float64 `toml:"height_tolerance" json:"height_tolerance"`
	// FixtureTolerance 夹具偏置表高度比对容差（英寸）
	FixtureTolerance float64 `toml:"fixture_tolerance" json:"fixture_tolerance"`
	// JawClearance 卡爪安全余量（英寸）
	JawClearance float64 `toml:"jaw_clearance" json:"jaw_clearance"`
	// SafeRetractZ 视为安全抬刀的最小 Z（英寸）
	SafeRetractZ float64 `toml:"safe_retract_z" json:"safe_retract_z"`

	Bore BoreToleranceConfig `toml:"bore" json:"bore"`
}

// BoreToleranceConfig 孔径方向性容差带（英寸）
// 偏大/偏小的严重性不同：孔偏小装不上为硬报废，偏大在一定范围内可救
type BoreToleranceConfig struct {
	UndersizeCritical float64 `toml:"undersize_critical" json:"undersize_critical"`
	UndersizeWarning  float64 `toml:"undersize_warning" json:"undersize_warning"`
	OversizeCritical  float64 `toml:"oversize_critical" json:"oversize_critical"`
	OversizeWarning   float64 `toml:"oversize_warning" json:"oversize_warning"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20873,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Batch: BatchConfig{
			Workers:    0,
			Extensions: []string{".nc", ".ngc", ".tap", ".txt"},
		},
		Engine: DefaultEngineConfig(),
	}
}

// DefaultEngineConfig 默认引擎阈值
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DepthTrustRatio:  0.95,
		ShallowMin:       0.05,
		ShallowMax:       0.25,
		TightTolerance:   0.02,
		NearEqualBand:    0.005,
		ExclusionBand:    0.015,
		BreachAllowance:  0.15,
		HeightTolerance:  0.05,
		FixtureTolerance: 0.06,
		JawClearance:     0.10,
		SafeRetractZ:     0.02,
		Bore: BoreToleranceConfig{
			UndersizeCritical: 0.010,
			UndersizeWarning:  0.004,
			OversizeCritical:  0.030,
			OversizeWarning:   0.010,
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
// 配置文件位于可执行文件同目录下，不存在时使用默认配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	if v := os.Getenv("GCIDE_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := cfgDataDir(config, exeDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"programs", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

func cfgDataDir(config *AppConfig, exeDir string) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

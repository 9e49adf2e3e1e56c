package strategyconfig

import "time"

// Config는 분석 파이프라인의 전체 파라미터
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Export    Export    `yaml:"export" json:"export"`
	Patterns  Patterns  `yaml:"patterns" json:"patterns"`
	Selection Selection `yaml:"selection" json:"selection"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Export S0: 정규화 데이터 덤프
type Export struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// Patterns S4: FP-Growth
type Patterns struct {
	MinSupport       int `yaml:"min_support" json:"min_support"`
	MaxLength        int `yaml:"max_length" json:"max_length"`   // 0 = 제한 없음
	WindowSize       int `yaml:"window_size" json:"window_size"` // 0 = 윈도우 마이닝 끔
	WindowMinSupport int `yaml:"window_min_support" json:"window_min_support"`
}

// Selection S5: 후보 선택
type Selection struct {
	ResultSize   int    `yaml:"result_size" json:"result_size"`
	PrimarySize  int    `yaml:"primary_size" json:"primary_size"`
	TopOverdue   int    `yaml:"top_overdue" json:"top_overdue"`
	TopFrequent  int    `yaml:"top_frequent" json:"top_frequent"`
	TopInterval  int    `yaml:"top_interval" json:"top_interval"`
	RelationTopK int    `yaml:"relation_top_k" json:"relation_top_k"`
	TopFollowers int    `yaml:"top_followers" json:"top_followers"`
	Seed         uint64 `yaml:"seed" json:"seed"` // 0 = 매 실행 랜덤
}

// Default returns the built-in parameters used when no file is configured
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "ssq_default",
			Version:    "1",
		},
		Export: Export{
			Enabled: false,
			Path:    "generate.txt",
		},
		Patterns: Patterns{
			MinSupport:       10,
			MaxLength:        0,
			WindowSize:       5,
			WindowMinSupport: 10,
		},
		Selection: Selection{
			ResultSize:   5,
			PrimarySize:  6,
			TopOverdue:   3,
			TopFrequent:  3,
			TopInterval:  3,
			RelationTopK: 6,
			TopFollowers: 2,
			Seed:         0,
		},
	}
}

// DecisionSnapshot 실행 스냅샷 (재현성용)
type DecisionSnapshot struct {
	ConfigHash     string    `json:"config_hash"`
	ConfigYAML     string    `json:"config_yaml,omitempty"`
	StrategyID     string    `json:"strategy_id"`
	DataSnapshotID string    `json:"data_snapshot_id"` // latest draw code
	CreatedAt      time.Time `json:"created_at"`
}

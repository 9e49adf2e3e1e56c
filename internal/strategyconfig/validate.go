package strategyconfig

import (
	"fmt"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Export ===
	if cfg.Export.Enabled && cfg.Export.Path == "" {
		return ValidationError{"export.path", "required when export is enabled"}
	}

	// === Patterns ===
	if cfg.Patterns.MinSupport < 1 {
		return ValidationError{"patterns.min_support", "must be >= 1"}
	}
	if cfg.Patterns.MaxLength < 0 {
		return ValidationError{"patterns.max_length", "must be >= 0"}
	}
	if cfg.Patterns.WindowSize < 0 {
		return ValidationError{"patterns.window_size", "must be >= 0"}
	}
	if cfg.Patterns.WindowSize > 0 && cfg.Patterns.WindowMinSupport < 1 {
		return ValidationError{"patterns.window_min_support", "must be >= 1 when window_size > 0"}
	}

	// === Selection ===
	sel := cfg.Selection
	if err := validateRange(sel.ResultSize, 1, 16, "selection.result_size"); err != nil {
		return err
	}
	if err := validateRange(sel.PrimarySize, 1, 33, "selection.primary_size"); err != nil {
		return err
	}
	for field, v := range map[string]int{
		"selection.top_overdue":    sel.TopOverdue,
		"selection.top_frequent":   sel.TopFrequent,
		"selection.top_interval":   sel.TopInterval,
		"selection.relation_top_k": sel.RelationTopK,
		"selection.top_followers":  sel.TopFollowers,
	} {
		if v < 0 {
			return ValidationError{field, "must be >= 0"}
		}
	}
	if sel.TopOverdue+sel.TopFrequent+sel.TopInterval == 0 {
		return ValidationError{"selection", "at least one of top_overdue, top_frequent, top_interval must be > 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 랭킹 풀이 결과 크기보다 작으면 도메인 전체에서 보충됨
	if cfg.Selection.TopOverdue+cfg.Selection.TopFrequent+cfg.Selection.TopInterval+cfg.Selection.TopFollowers < cfg.Selection.ResultSize {
		warnings = append(warnings, Warning{
			Code:    "SMALL_SPECIAL_POOL",
			Message: "ranking cutoffs sum below result_size: pool is topped up in ball order",
		})
	}

	// 낮은 support는 조합 폭발
	if cfg.Patterns.MinSupport < 3 && cfg.Patterns.MaxLength == 0 {
		warnings = append(warnings, Warning{
			Code:    "UNBOUNDED_MINING",
			Message: "min_support < 3 without max_length: mining cost may grow combinatorially",
		})
	}

	// 고정 시드는 매 실행 동일 결과
	if cfg.Selection.Seed != 0 {
		warnings = append(warnings, Warning{
			Code:    "FIXED_SEED",
			Message: "selection.seed is fixed: every run returns the same selections for the same history",
		})
	}

	return warnings
}

// validateRange는 정수 값이 [lo, hi] 범위인지 검증
func validateRange(v, lo, hi int, field string) error {
	if v < lo || v > hi {
		return ValidationError{field, fmt.Sprintf("must be in range [%d, %d]", lo, hi)}
	}
	return nil
}

package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 스냅샷, DB row에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4 → S5
//   Export  Occurrence  Relationship  Transition  Patterns  Selection

// Stage represents a pipeline stage
type Stage string

const (
	// StageExport S0: 정규화된 추첨 기록 덤프 (선택)
	// 위치: internal/signals/exporter.go
	StageExport Stage = "S0_EXPORT"

	// StageOccurrence S1: 출현 간격 통계
	// 위치: internal/signals/occurrence.go
	StageOccurrence Stage = "S1_OCCURRENCE"

	// StageRelationship S2: 동시 출현 카운트
	// 위치: internal/signals/relationship.go
	StageRelationship Stage = "S2_RELATIONSHIP"

	// StageTransition S3: 연속 추첨 간 special ball 전이
	// 위치: internal/signals/transition.go
	StageTransition Stage = "S3_TRANSITION"

	// StagePatterns S4: 빈발 패턴 마이닝 (FP-Growth)
	// 위치: internal/mining/
	StagePatterns Stage = "S4_PATTERNS"

	// StageSelection S5: 후보 선택
	// 위치: internal/selection/
	StageSelection Stage = "S5_SELECTION"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageExport:
		return "S0"
	case StageOccurrence:
		return "S1"
	case StageRelationship:
		return "S2"
	case StageTransition:
		return "S3"
	case StagePatterns:
		return "S4"
	case StageSelection:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human readable description of the stage
func (s Stage) Description() string {
	switch s {
	case StageExport:
		return "draw record export"
	case StageOccurrence:
		return "occurrence interval statistics"
	case StageRelationship:
		return "pairwise co-occurrence counts"
	case StageTransition:
		return "special ball transitions"
	case StagePatterns:
		return "frequent pattern mining"
	case StageSelection:
		return "candidate selection"
	default:
		return "unknown"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageExport,
		StageOccurrence,
		StageRelationship,
		StageTransition,
		StagePatterns,
		StageSelection,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage    Stage  `json:"stage"`
	Success  bool   `json:"success"`
	Duration int64  `json:"duration_ms"`
	Error    string `json:"error,omitempty"`
}

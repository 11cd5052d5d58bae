package models

import (
	"time"

	"vacuum-backend/algorithms"
)

// ========================================
// 에이전트 상태 상수
// ========================================
const (
	StateIdle      AgentState = "idle"      // 대기 (다음 행동 결정)
	StateMoving    AgentState = "moving"    // 청소할 방으로 이동 중
	StateCleaning  AgentState = "cleaning"  // 청소 중
	StateReturning AgentState = "returning" // 스테이션 복귀 중
	StateEmptying  AgentState = "emptying"  // 먼지통 비우는 중
	StateCharging  AgentState = "charging"  // 충전 중
)

// 모드 상수
const (
	ModeAuto   AgentMode = "auto"   // 상태 머신 자동 운행
	ModeManual AgentMode = "manual" // 외부 수동 조작 (상태 머신 정지)
)

// AgentState - 에이전트 행동 상태
type AgentState string

// AgentMode - 자동/수동 모드
type AgentMode string

// ========================================
// 표시 계층용 스냅샷
// ========================================
type AgentStatus struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`

	// 위치
	Position algorithms.Point `json:"position"`
	Angle    float64          `json:"angle"` // 진행 방향 (라디안)

	// 운영 상태
	State         AgentState `json:"state"`
	Mode          AgentMode  `json:"mode"`
	CurrentAction string     `json:"current_action"`
	Progress      float64    `json:"progress"` // 청소/충전/비움 진행도 (0~1)

	// 자원 (%)
	Battery float64 `json:"battery"`
	DirtBin float64 `json:"dirt_bin"`

	// 경로 정보
	TargetRoom string             `json:"target_room"` // 없으면 빈 문자열
	Path       []algorithms.Point `json:"path"`        // 남은 웨이포인트

	Rooms []RoomStatus `json:"rooms"`
	Stats AgentStats   `json:"stats"`

	ElapsedTime float64   `json:"elapsed_time"`  // 시뮬레이션 경과 (초)
	NextCycleIn float64   `json:"next_cycle_in"` // 다음 분석 주기까지 (초)
	Timestamp   time.Time `json:"timestamp"`
}

// RoomStatus - 방 상태 + 학습된 방문 횟수
type RoomStatus struct {
	Name        string          `json:"name"`
	Bounds      algorithms.Rect `json:"bounds"`
	DirtLevel   DirtLevel       `json:"dirt_level"`
	Visits      int             `json:"visits"`
	LastCleaned float64         `json:"last_cleaned"`
}

// AgentStats - 누적 성능 통계
type AgentStats struct {
	TotalDistance  float64 `json:"total_distance"`  // 이동 거리 (월드 단위)
	TotalCleanings int     `json:"total_cleanings"` // 청소 완료 횟수
	TimeCleaning   float64 `json:"time_cleaning"`   // 청소에 쓴 시간 (초)
	Cleanliness    float64 `json:"cleanliness"`     // 깨끗한 방 비율 (%)
}

// TransitionEvent - 상태 전이 한 건
type TransitionEvent struct {
	From       AgentState       `json:"from"`
	To         AgentState       `json:"to"`
	Action     string           `json:"action"`
	TargetRoom string           `json:"target_room"`
	Position   algorithms.Point `json:"position"`
	Battery    float64          `json:"battery"`
	DirtBin    float64          `json:"dirt_bin"`
	SimTime    float64          `json:"sim_time"`
}

package models

import (
	"time"
)

// 활동 로그 이벤트 타입
const (
	EventTransition   = "transition"
	EventDirtInjected = "dirt_injected"
	EventRoomCleaned  = "room_cleaned"
	EventRouteFailed  = "route_failed"
	EventModeChange   = "mode_change"
)

// ActivityLog - 에이전트 활동 로그 (DB 저장)
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	SessionID string    `gorm:"size:36;index" json:"session_id"`
	AgentID   string    `gorm:"size:64;index" json:"agent_id"`
	EventType string    `gorm:"size:32;index" json:"event_type"`

	// 상태 전이
	FromState string `gorm:"size:16" json:"from_state"`
	ToState   string `gorm:"size:16" json:"to_state"`
	Action    string `json:"action"`

	// 대상 방
	TargetRoom string `gorm:"size:64" json:"target_room"`
	RoomLevel  string `gorm:"size:16" json:"room_level"`

	// 에이전트 상태
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Battery   float64 `json:"battery"`
	DirtBin   float64 `json:"dirt_bin"`
	SimTime   float64 `json:"sim_time"` // 시뮬레이션 경과 (초)
}

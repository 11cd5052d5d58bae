package models

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Server → Web
	MessageTypeStatus      = "status"       // 에이전트 전체 상태 스냅샷
	MessageTypeTransition  = "transition"   // 상태 전이
	MessageTypeDirtUpdate  = "dirt_update"  // 방 오염
	MessageTypeRoomCleaned = "room_cleaned" // 방 청소 완료
	MessageTypeMapUpdate   = "map_update"   // 정적 배치 정보
	MessageTypeSystemInfo  = "system_info"  // 시스템 정보
	MessageTypeError       = "error"        // 명령 처리 실패

	// Web → Server
	MessageTypeModeChange  = "mode_change"  // 자동/수동 전환
	MessageTypeManualMove  = "manual_move"  // 수동 이동
	MessageTypeManualClean = "manual_clean" // 수동 청소 시작
	MessageTypeDirty       = "dirty"        // 방 오염 주입
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// ========================================
// 명령 메시지
// ========================================

// 모드 변경 명령
type ModeChangeCommand struct {
	Mode AgentMode `json:"mode"` // "auto" | "manual"
}

// 수동 이동 명령
type ManualMoveCommand struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// 오염 주입 명령 (Level이 비어 있으면 한 단계 올림)
type DirtyCommand struct {
	Room  string `json:"room"`
	Level string `json:"level,omitempty"`
}

// DirtEvent - 방 오염/청소 이벤트
type DirtEvent struct {
	Room      string    `json:"room"`
	DirtLevel DirtLevel `json:"dirt_level"`
	SimTime   float64   `json:"sim_time"`
}

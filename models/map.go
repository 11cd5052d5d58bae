package models

import "vacuum-backend/algorithms"

// Obstacle - 가구 장애물 (생성 후 불변)
type Obstacle struct {
	Name   string          `json:"name"`
	Bounds algorithms.Rect `json:"bounds"`
}

// Station - 충전 겸 먼지통 비움 스테이션
type Station struct {
	Bounds algorithms.Rect `json:"bounds"`
}

// Center - 에이전트가 도킹하는 지점
func (s Station) Center() algorithms.Point {
	return s.Bounds.Center()
}

// MapLayout - 표시 계층에 전달하는 정적 배치 정보
type MapLayout struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	CellSize  float64    `json:"cell_size"`
	Rooms     []RoomInfo `json:"rooms"`
	Obstacles []Obstacle `json:"obstacles"`
	Station   Station    `json:"station"`
}

// RoomInfo - 방 정적 정보
type RoomInfo struct {
	Name   string          `json:"name"`
	Bounds algorithms.Rect `json:"bounds"`
}

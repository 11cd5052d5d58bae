package services

import (
	"math"

	"vacuum-backend/algorithms"
	"vacuum-backend/models"
)

// Agent - 청소 로봇 상태. Controller만 변경하고 표시 계층은 스냅샷으로 읽는다.
type Agent struct {
	Position algorithms.Point
	Angle    float64
	State    models.AgentState

	Battery float64
	DirtBin float64

	TargetRoom *models.Room
	Path       []algorithms.Point
	PathIndex  int
	Progress   float64 // 청소/충전/비움 진행도

	Visits *VisitMemory

	// 통계
	TotalDistance  float64
	TotalCleanings int
	TimeCleaning   float64
}

// NewAgent - 스테이션에서 대기 상태로 시작하는 에이전트
func NewAgent(position algorithms.Point, maxBattery float64) *Agent {
	return &Agent{
		Position: position,
		State:    models.StateIdle,
		Battery:  maxBattery,
		Visits:   NewVisitMemory(),
	}
}

// HasPath - 소비할 웨이포인트가 남았는지
func (a *Agent) HasPath() bool {
	return a.PathIndex < len(a.Path)
}

// RemainingPath - 아직 지나지 않은 웨이포인트 복사본
func (a *Agent) RemainingPath() []algorithms.Point {
	if !a.HasPath() {
		return []algorithms.Point{}
	}
	remaining := make([]algorithms.Point, len(a.Path)-a.PathIndex)
	copy(remaining, a.Path[a.PathIndex:])
	return remaining
}

func (a *Agent) assignPath(path []algorithms.Point) {
	a.Path = path
	a.PathIndex = 0
}

func (a *Agent) clearPath() {
	a.Path = nil
	a.PathIndex = 0
}

// advance - 다음 웨이포인트로 speed만큼 이동. 경로를 모두 소비하면 true.
func (a *Agent) advance(speed float64) bool {
	if !a.HasPath() {
		return true
	}

	target := a.Path[a.PathIndex]
	dx := target.X - a.Position.X
	dy := target.Y - a.Position.Y
	dist := math.Hypot(dx, dy)

	if dist > 0 {
		a.Angle = math.Atan2(dy, dx)
	}

	if dist < speed {
		a.Position = target
		a.TotalDistance += dist
		a.PathIndex++
	} else {
		a.Position.X += dx / dist * speed
		a.Position.Y += dy / dist * speed
		a.TotalDistance += speed
	}

	return a.PathIndex >= len(a.Path)
}

package services

import "vacuum-backend/models"

// 우선순위 가중치
const (
	dirtWeight  = 2.0
	visitWeight = 0.5
)

// VisitMemory - 방 이름별 학습된 방문(선택) 횟수. 처음 보는 방은 0.
type VisitMemory struct {
	counts map[string]int
}

// NewVisitMemory - 빈 방문 기록 생성
func NewVisitMemory() *VisitMemory {
	return &VisitMemory{counts: make(map[string]int)}
}

// Count - 방문 횟수 (없으면 0)
func (m *VisitMemory) Count(room string) int {
	return m.counts[room]
}

// Record - 방문 횟수 1 증가
func (m *VisitMemory) Record(room string) {
	m.counts[room]++
}

// Score - 오염도 × 2 + 방문 횟수 × 0.5
func Score(room *models.Room, visits int) float64 {
	return float64(room.DirtValue())*dirtWeight + float64(visits)*visitWeight
}

// SelectRoom - 점수가 가장 높은 방을 고르고 방문 횟수를 올린다.
// 동점이면 후보 목록에서 먼저 나온 방. 후보가 없으면 nil.
func SelectRoom(candidates []*models.Room, memory *VisitMemory) *models.Room {
	var best *models.Room
	bestScore := 0.0

	for _, room := range candidates {
		score := Score(room, memory.Count(room.Name))
		if best == nil || score > bestScore {
			best = room
			bestScore = score
		}
	}

	if best != nil {
		memory.Record(best.Name)
	}
	return best
}

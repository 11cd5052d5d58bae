package models

import (
	"fmt"
	"strings"

	"vacuum-backend/algorithms"
)

// DirtLevel - 방 오염도 (순서 있는 열거형)
type DirtLevel int

const (
	DirtClean     DirtLevel = iota // 깨끗함
	DirtDusty                      // 먼지
	DirtDirty                      // 쓰레기
	DirtVeryDirty                  // 심한 오염
)

var dirtLevelNames = []string{"CLEAN", "DUSTY", "DIRTY", "VERY_DIRTY"}

func (l DirtLevel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("DirtLevel(%d)", int(l))
	}
	return dirtLevelNames[l]
}

// Valid - 정의된 범위 안의 값인지 검사
func (l DirtLevel) Valid() bool {
	return l >= DirtClean && l <= DirtVeryDirty
}

// MarshalText - JSON에는 이름 문자열로 기록
func (l DirtLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText - 이름 문자열 → DirtLevel
func (l *DirtLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseDirtLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseDirtLevel - "dirty", "VERY_DIRTY" 등 대소문자 무시
func ParseDirtLevel(s string) (DirtLevel, error) {
	for i, name := range dirtLevelNames {
		if strings.EqualFold(s, name) {
			return DirtLevel(i), nil
		}
	}
	return DirtClean, fmt.Errorf("unknown dirt level %q", s)
}

// Room - 이름, 고정 사각형 영역, 오염도, 오염 이력을 가진 방
type Room struct {
	Name        string          `json:"name"`
	Bounds      algorithms.Rect `json:"bounds"`
	DirtLevel   DirtLevel       `json:"dirt_level"`
	DirtHistory []float64       `json:"dirt_history"` // 오염 시각 (시뮬레이션 경과 초)
	LastCleaned float64         `json:"last_cleaned"`
}

// NewRoom - 방 생성 (처음엔 깨끗함)
func NewRoom(name string, x, y, width, height float64) *Room {
	return &Room{
		Name:      name,
		Bounds:    algorithms.Rect{X: x, Y: y, Width: width, Height: height},
		DirtLevel: DirtClean,
	}
}

// Center - 청소 목표 지점
func (r *Room) Center() algorithms.Point {
	return r.Bounds.Center()
}

// DirtValue - 오염도 수치 (0~3)
func (r *Room) DirtValue() int {
	return int(r.DirtLevel)
}

// IsDirty - 청소가 필요한지
func (r *Room) IsDirty() bool {
	return r.DirtLevel != DirtClean
}

// Contains - 점이 방 내부(경계 제외)에 있는지
func (r *Room) Contains(p algorithms.Point) bool {
	b := r.Bounds
	return b.X < p.X && p.X < b.X+b.Width && b.Y < p.Y && p.Y < b.Y+b.Height
}

// MakeDirty - 오염도를 한 단계 올린다 (VERY_DIRTY에서 멈춤).
// 오염도가 실제로 오른 경우에만 DirtHistory에 남기고 true를 반환한다.
func (r *Room) MakeDirty(at float64) bool {
	return r.SetDirt(r.DirtLevel+1, at)
}

// SetDirt - 지정한 오염도로 올린다. 오염 이벤트로는 오염도가 내려가지 않으며
// 변화가 없으면 기록하지 않는다.
func (r *Room) SetDirt(level DirtLevel, at float64) bool {
	if level > DirtVeryDirty {
		level = DirtVeryDirty
	}
	if level <= r.DirtLevel {
		return false
	}
	r.DirtLevel = level
	r.DirtHistory = append(r.DirtHistory, at)
	return true
}

// Clean - 청소 완료 처리
func (r *Room) Clean(at float64) {
	r.DirtLevel = DirtClean
	r.LastCleaned = at
}

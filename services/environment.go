package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"vacuum-backend/algorithms"
	"vacuum-backend/models"
)

// ErrRoomNotFound - 이름에 해당하는 방이 없음
var ErrRoomNotFound = errors.New("room not found")

// Environment - 방, 장애물, 스테이션과 오염 주입을 관리한다
type Environment struct {
	Width     float64
	Height    float64
	Rooms     []*models.Room
	Obstacles []models.Obstacle
	Station   models.Station

	rng          *rand.Rand
	dirtMin      float64
	dirtMax      float64
	dirtInterval float64
	lastDirtTime float64
}

// NewEnvironment - 주어진 배치로 환경 생성.
// dirtMax가 0이면 자동 오염 주입을 하지 않는다.
func NewEnvironment(width, height float64, rooms []*models.Room, obstacles []models.Obstacle, station models.Station, rng *rand.Rand, dirtMin, dirtMax float64) *Environment {
	env := &Environment{
		Width:     width,
		Height:    height,
		Rooms:     rooms,
		Obstacles: obstacles,
		Station:   station,
		rng:       rng,
		dirtMin:   dirtMin,
		dirtMax:   dirtMax,
	}
	env.dirtInterval = env.nextInterval()
	return env
}

// DefaultRooms - 기본 집 구조 (여백 50)
func DefaultRooms() []*models.Room {
	margin := 50.0
	return []*models.Room{
		models.NewRoom("Salon", margin, margin, 300, 250),
		models.NewRoom("Cuisine", margin+320, margin, 280, 250),
		models.NewRoom("Couloir", margin, margin+270, 600, 100),
		models.NewRoom("Chambre A", margin, margin+390, 280, 200),
		models.NewRoom("Chambre B", margin+320, margin+390, 280, 200),
	}
}

// DefaultObstacles - 기본 가구 배치
func DefaultObstacles() []models.Obstacle {
	return []models.Obstacle{
		{Name: "Canapé", Bounds: algorithms.Rect{X: 80, Y: 100, Width: 80, Height: 60}},
		{Name: "Table", Bounds: algorithms.Rect{X: 200, Y: 180, Width: 60, Height: 60}},
		{Name: "Îlot", Bounds: algorithms.Rect{X: 380, Y: 100, Width: 100, Height: 80}},
		{Name: "Lit", Bounds: algorithms.Rect{X: 100, Y: 480, Width: 60, Height: 80}},
		{Name: "Bureau", Bounds: algorithms.Rect{X: 380, Y: 500, Width: 80, Height: 60}},
	}
}

// DefaultStation - 복도에 놓인 스테이션
func DefaultStation() models.Station {
	return models.Station{Bounds: algorithms.Rect{X: 300, Y: 350, Width: 100, Height: 80}}
}

// ScatterInitialDirt - 임의의 방 count개를 DUSTY 또는 DIRTY로 만든다
func (e *Environment) ScatterInitialDirt(count int, at float64) []*models.Room {
	if count > len(e.Rooms) {
		count = len(e.Rooms)
	}
	var dirtied []*models.Room
	for _, idx := range e.rng.Perm(len(e.Rooms))[:count] {
		room := e.Rooms[idx]
		room.SetDirt(models.DirtLevel(1+e.rng.Intn(2)), at)
		dirtied = append(dirtied, room)
	}
	return dirtied
}

// UpdateDirt - 오염 주기가 지났으면 VERY_DIRTY가 아닌 임의의 방을 한 단계 더럽힌다.
// 더럽힌 방을 반환하고, 없으면 nil.
func (e *Environment) UpdateDirt(elapsed float64) *models.Room {
	if e.dirtMax <= 0 || elapsed-e.lastDirtTime < e.dirtInterval {
		return nil
	}
	e.lastDirtTime = elapsed
	e.dirtInterval = e.nextInterval()

	var candidates []*models.Room
	for _, room := range e.Rooms {
		if room.DirtLevel < models.DirtVeryDirty {
			candidates = append(candidates, room)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	room := candidates[e.rng.Intn(len(candidates))]
	room.MakeDirty(elapsed)
	log.Printf("🗑️ %s → %s", room.Name, room.DirtLevel)
	return room
}

func (e *Environment) nextInterval() float64 {
	return e.dirtMin + e.rng.Float64()*(e.dirtMax-e.dirtMin)
}

// DirtyRooms - 청소가 필요한 방 (배치 순서 유지)
func (e *Environment) DirtyRooms() []*models.Room {
	var dirty []*models.Room
	for _, room := range e.Rooms {
		if room.IsDirty() {
			dirty = append(dirty, room)
		}
	}
	return dirty
}

// Room - 이름으로 방 찾기
func (e *Environment) Room(name string) (*models.Room, error) {
	for _, room := range e.Rooms {
		if room.Name == name {
			return room, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, name)
}

// RoomAt - 점을 포함하는 방 (없으면 nil)
func (e *Environment) RoomAt(p algorithms.Point) *models.Room {
	for _, room := range e.Rooms {
		if room.Contains(p) {
			return room
		}
	}
	return nil
}

// ObstacleRects - 그리드 모델에 넘길 장애물 사각형
func (e *Environment) ObstacleRects() []algorithms.Rect {
	rects := make([]algorithms.Rect, len(e.Obstacles))
	for i, obs := range e.Obstacles {
		rects[i] = obs.Bounds
	}
	return rects
}

// Cleanliness - 깨끗한 방 비율 (%)
func (e *Environment) Cleanliness() float64 {
	if len(e.Rooms) == 0 {
		return 100
	}
	clean := 0
	for _, room := range e.Rooms {
		if !room.IsDirty() {
			clean++
		}
	}
	return float64(clean) / float64(len(e.Rooms)) * 100
}

// Layout - 표시 계층용 정적 배치 정보
func (e *Environment) Layout(cellSize float64) models.MapLayout {
	rooms := make([]models.RoomInfo, len(e.Rooms))
	for i, room := range e.Rooms {
		rooms[i] = models.RoomInfo{Name: room.Name, Bounds: room.Bounds}
	}
	return models.MapLayout{
		Width:     e.Width,
		Height:    e.Height,
		CellSize:  cellSize,
		Rooms:     rooms,
		Obstacles: e.Obstacles,
		Station:   e.Station,
	}
}

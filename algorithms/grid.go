package algorithms

import "math"

// Point - 연속 좌표 (월드 단위)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell - 그리드 셀 좌표
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect - 축 정렬 사각형 (좌상단 기준, 오른쪽/아래 경계는 제외)
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains - 점이 사각형 내부인지 검사
func (r Rect) Contains(x, y float64) bool {
	return r.X <= x && x < r.X+r.Width && r.Y <= y && y < r.Y+r.Height
}

// Center - 사각형 중심점
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Grid - 장애물 사각형을 이산 셀 단위의 통행 가능 여부로 변환하는 그리드 모델.
// 통행 가능 여부는 캐시하지 않고 매 질의마다 장애물 목록으로 다시 계산한다.
type Grid struct {
	Width     int     // 가로 셀 수
	Height    int     // 세로 셀 수
	CellSize  float64 // 셀 한 변의 길이 (월드 단위)
	Obstacles []Rect
	Heuristic Heuristic
}

// NewGrid - 월드 크기와 셀 크기로 그리드 생성
func NewGrid(worldWidth, worldHeight, cellSize float64, obstacles []Rect) *Grid {
	return &Grid{
		Width:     int(worldWidth / cellSize),
		Height:    int(worldHeight / cellSize),
		CellSize:  cellSize,
		Obstacles: obstacles,
		Heuristic: Octile,
	}
}

// CellAt - 월드 좌표 → 셀 좌표 (셀 크기로 나눈 뒤 내림)
func (g *Grid) CellAt(p Point) Cell {
	return Cell{
		X: int(math.Floor(p.X / g.CellSize)),
		Y: int(math.Floor(p.Y / g.CellSize)),
	}
}

// CellCenter - 셀 좌표 → 셀 중심 월드 좌표
func (g *Grid) CellCenter(c Cell) Point {
	return Point{
		X: float64(c.X)*g.CellSize + g.CellSize/2,
		Y: float64(c.Y)*g.CellSize + g.CellSize/2,
	}
}

// InBounds - 그리드 범위 내 검사
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// IsWalkable - 범위 안이고 셀 중심이 어떤 장애물에도 속하지 않으면 통행 가능
func (g *Grid) IsWalkable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	center := g.CellCenter(c)
	for _, obs := range g.Obstacles {
		if obs.Contains(center.X, center.Y) {
			return false
		}
	}
	return true
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.Width + c.X
}

func (g *Grid) cellOf(idx int) Cell {
	return Cell{X: idx % g.Width, Y: idx / g.Width}
}

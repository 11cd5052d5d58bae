package services

import (
	"vacuum-backend/algorithms"
)

// PathFinder - 환경의 장애물로 그리드를 만들어 A* 경로를 계산한다
type PathFinder struct {
	env       *Environment
	cellSize  float64
	heuristic algorithms.Heuristic
}

// RouteResult - 경로 탐색 결과 (REST 응답용)
type RouteResult struct {
	Found  bool               `json:"found"`
	Path   []algorithms.Point `json:"path"`
	Cost   float64            `json:"cost"`   // 셀 단위 비용 (직선 1, 대각선 1.4)
	Length float64            `json:"length"` // 월드 단위 거리
}

// NewPathFinder - PathFinder 생성
func NewPathFinder(env *Environment, cellSize float64, heuristic algorithms.Heuristic) *PathFinder {
	return &PathFinder{
		env:       env,
		cellSize:  cellSize,
		heuristic: heuristic,
	}
}

// Grid - 현재 장애물 목록으로 그리드 모델 생성
func (pf *PathFinder) Grid() *algorithms.Grid {
	grid := algorithms.NewGrid(pf.env.Width, pf.env.Height, pf.cellSize, pf.env.ObstacleRects())
	if pf.heuristic != nil {
		grid.Heuristic = pf.heuristic
	}
	return grid
}

// FindPath - 월드 좌표 사이 웨이포인트 경로. 도달 불가능하면 빈 경로.
func (pf *PathFinder) FindPath(start, goal algorithms.Point) []algorithms.Point {
	return pf.Grid().FindPath(start, goal)
}

// PlanRoute - 비용/길이를 포함한 경로 계획. simplify면 Douglas-Peucker로 간소화한다.
func (pf *PathFinder) PlanRoute(start, goal algorithms.Point, simplify bool) RouteResult {
	grid := pf.Grid()
	cells := grid.FindCells(grid.CellAt(start), grid.CellAt(goal))
	if len(cells) == 0 {
		return RouteResult{Found: false, Path: []algorithms.Point{}}
	}

	path := make([]algorithms.Point, len(cells))
	for i, c := range cells {
		path[i] = grid.CellCenter(c)
	}
	if simplify {
		path = algorithms.SimplifyPath(path, pf.cellSize/2)
	}

	return RouteResult{
		Found:  true,
		Path:   path,
		Cost:   algorithms.PathCost(cells),
		Length: algorithms.PathLength(path),
	}
}

package algorithms

import (
	"container/heap"
	"math"
)

// 이동 비용
const (
	StraightCost = 1.0
	DiagonalCost = 1.4
)

// Heuristic - 두 셀 사이의 남은 비용 추정 함수
type Heuristic func(a, b Cell) float64

// Manhattan - 맨해튼 거리
func Manhattan(a, b Cell) float64 {
	return float64(absInt(a.X-b.X) + absInt(a.Y-b.Y))
}

// Octile - 직선 1, 대각선 1.4 비용에 맞춘 옥타일 거리 (허용적이며 일관적)
func Octile(a, b Cell) float64 {
	dx := absInt(a.X - b.X)
	dy := absInt(a.Y - b.Y)
	lo, hi := dx, dy
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(hi-lo)*StraightCost + float64(lo)*DiagonalCost
}

// HeuristicByName - 설정 문자열 → 휴리스틱 ("manhattan" 외에는 옥타일)
func HeuristicByName(name string) Heuristic {
	if name == "manhattan" {
		return Manhattan
	}
	return Octile
}

var directions = []struct {
	dx, dy int
	cost   float64
}{
	{0, 1, StraightCost}, {1, 0, StraightCost}, {0, -1, StraightCost}, {-1, 0, StraightCost},
	{1, 1, DiagonalCost}, {-1, -1, DiagonalCost}, {1, -1, DiagonalCost}, {-1, 1, DiagonalCost},
}

// searchNode - 열린 집합 항목. 선행 노드는 parent 테이블(셀 인덱스)에 둔다.
type searchNode struct {
	cell  Cell
	g, h  float64
	seq   int
	index int
}

func (n *searchNode) f() float64 { return n.g + n.h }

// openSet - f, h, 삽입 순서로 정렬되는 최소 힙
type openSet []*searchNode

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (pq openSet) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *openSet) Push(x interface{}) {
	node := x.(*searchNode)
	node.index = len(*pq)
	*pq = append(*pq, node)
}

func (pq *openSet) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// FindPath - 두 월드 좌표 사이의 A* 경로 (셀 중심 웨이포인트, 시작/목표 포함).
// 도달 불가능하면 빈 슬라이스(nil)를 반환한다.
func (g *Grid) FindPath(start, goal Point) []Point {
	cells := g.FindCells(g.CellAt(start), g.CellAt(goal))
	if len(cells) == 0 {
		return nil
	}
	path := make([]Point, len(cells))
	for i, c := range cells {
		path[i] = g.CellCenter(c)
	}
	return path
}

// FindCells - 셀 단위 A* 탐색
func (g *Grid) FindCells(start, goal Cell) []Cell {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}
	if !g.IsWalkable(goal) {
		return nil
	}

	h := g.Heuristic
	if h == nil {
		h = Octile
	}

	size := g.Width * g.Height
	gScore := make([]float64, size)
	parent := make([]int, size)
	closed := make([]bool, size)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		parent[i] = -1
	}

	open := make(openSet, 0, 64)
	heap.Init(&open)

	seq := 0
	gScore[g.index(start)] = 0
	heap.Push(&open, &searchNode{cell: start, g: 0, h: h(start, goal), seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(&open).(*searchNode)
		ci := g.index(current.cell)

		// 이미 확정됐거나 더 나은 g로 갱신된 낡은 항목
		if closed[ci] || current.g > gScore[ci] {
			continue
		}

		if current.cell == goal {
			return g.reconstructPath(parent, ci)
		}
		closed[ci] = true

		for _, d := range directions {
			nb := Cell{X: current.cell.X + d.dx, Y: current.cell.Y + d.dy}
			if !g.IsWalkable(nb) {
				continue
			}
			ni := g.index(nb)
			if closed[ni] {
				continue
			}

			tentativeG := current.g + d.cost
			if tentativeG >= gScore[ni] {
				continue
			}

			gScore[ni] = tentativeG
			parent[ni] = ci
			seq++
			heap.Push(&open, &searchNode{cell: nb, g: tentativeG, h: h(nb, goal), seq: seq})
		}
	}

	// 경로 없음
	return nil
}

// reconstructPath - parent 테이블을 목표에서 시작까지 거슬러 올라간 뒤 뒤집는다
func (g *Grid) reconstructPath(parent []int, goalIdx int) []Cell {
	var path []Cell
	for idx := goalIdx; idx != -1; idx = parent[idx] {
		path = append(path, g.cellOf(idx))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost - 셀 경로의 이동 비용 합
func PathCost(cells []Cell) float64 {
	cost := 0.0
	for i := 1; i < len(cells); i++ {
		if cells[i].X != cells[i-1].X && cells[i].Y != cells[i-1].Y {
			cost += DiagonalCost
		} else {
			cost += StraightCost
		}
	}
	return cost
}

// IsAdjacent - 두 셀이 8방향으로 인접한지 검사
func IsAdjacent(a, b Cell) bool {
	dx, dy := absInt(a.X-b.X), absInt(a.Y-b.Y)
	return dx <= 1 && dy <= 1 && dx+dy > 0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

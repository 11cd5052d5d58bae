package algorithms

import "math"

// SimplifyPath - Douglas-Peucker 알고리즘으로 경로 간소화 (표시용)
func SimplifyPath(path []Point, epsilon float64) []Point {
	if len(path) < 3 {
		return path
	}

	// 가장 먼 점 찾기
	dmax := 0.0
	index := 0
	for i := 1; i < len(path)-1; i++ {
		d := perpendicularDistance(path[i], path[0], path[len(path)-1])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > epsilon {
		left := SimplifyPath(path[:index+1], epsilon)
		right := SimplifyPath(path[index:], epsilon)
		out := make([]Point, 0, len(left)+len(right)-1)
		out = append(out, left[:len(left)-1]...)
		return append(out, right...)
	}

	return []Point{path[0], path[len(path)-1]}
}

// perpendicularDistance - 점에서 선분까지 거리
func perpendicularDistance(point, lineStart, lineEnd Point) float64 {
	dx := lineEnd.X - lineStart.X
	dy := lineEnd.Y - lineStart.Y

	if dx == 0 && dy == 0 {
		return math.Hypot(point.X-lineStart.X, point.Y-lineStart.Y)
	}

	t := ((point.X-lineStart.X)*dx + (point.Y-lineStart.Y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	projX := lineStart.X + t*dx
	projY := lineStart.Y + t*dy
	return math.Hypot(point.X-projX, point.Y-projY)
}

// PathLength - 웨이포인트 사이 유클리드 거리 합
func PathLength(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += math.Hypot(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y)
	}
	return total
}

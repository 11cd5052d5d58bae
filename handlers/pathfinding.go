package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"vacuum-backend/algorithms"
)

type PathfindingRequest struct {
	Start    algorithms.Point `json:"start"`
	Goal     algorithms.Point `json:"goal"`
	Simplify bool             `json:"simplify"`
}

type PathfindingResponse struct {
	Success bool               `json:"success"`
	Path    []algorithms.Point `json:"path,omitempty"`
	Cost    float64            `json:"cost,omitempty"`
	Length  float64            `json:"length,omitempty"`
	Message string             `json:"message,omitempty"`
}

// HandlePathfinding - 현재 집 배치 기준 경로 계획 (에이전트는 움직이지 않음)
func (a *API) HandlePathfinding(c *fiber.Ctx) error {
	var req PathfindingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: "잘못된 요청 형식입니다",
		})
	}

	log.Printf("📍 경로 탐색 요청: (%.1f, %.1f) → (%.1f, %.1f)", req.Start.X, req.Start.Y, req.Goal.X, req.Goal.Y)

	route := a.sim.PlanRoute(req.Start, req.Goal, req.Simplify)
	if !route.Found {
		log.Printf("❌ 경로를 찾을 수 없습니다")
		return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
			Success: false,
			Message: "경로를 찾을 수 없습니다",
		})
	}

	log.Printf("✅ 경로 탐색 성공: %d개 웨이포인트", len(route.Path))
	return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
		Success: true,
		Path:    route.Path,
		Cost:    route.Cost,
		Length:  route.Length,
		Message: "경로 탐색 성공",
	})
}

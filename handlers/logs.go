package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// storeUnavailable - DB가 꺼져 있을 때 503
func storeUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "Activity log storage is not configured",
	})
}

func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		return 100
	}
	return limit
}

// HandleGetRecentLogs - 최근 로그 조회
func (a *API) HandleGetRecentLogs(c *fiber.Ctx) error {
	if a.store == nil {
		return storeUnavailable(c)
	}
	agentID := c.Query("agent_id", a.sim.AgentID())

	logs, err := a.store.Recent(agentID, queryLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}

// HandleGetSessionLogs - 세션 로그 조회 (기본: 현재 세션)
func (a *API) HandleGetSessionLogs(c *fiber.Ctx) error {
	if a.store == nil {
		return storeUnavailable(c)
	}
	sessionID := c.Query("session_id", a.sim.SessionID())

	logs, err := a.store.BySession(sessionID, queryLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(logs),
		"session_id": sessionID,
		"logs":       logs,
	})
}

// HandleGetLogsByTimeRange - 시간 범위로 로그 조회
func (a *API) HandleGetLogsByTimeRange(c *fiber.Ctx) error {
	if a.store == nil {
		return storeUnavailable(c)
	}
	agentID := c.Query("agent_id", a.sim.AgentID())
	startStr := c.Query("start") // RFC3339
	endStr := c.Query("end")     // RFC3339

	// 기본: 24시간 전부터
	start := time.Now().Add(-24 * time.Hour)
	if startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid start time format (use RFC3339)",
			})
		}
		start = parsed
	}

	end := time.Now()
	if endStr != "" {
		parsed, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid end time format (use RFC3339)",
			})
		}
		end = parsed
	}

	logs, err := a.store.ByTimeRange(agentID, start, end, queryLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"time_range": fiber.Map{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
		"logs": logs,
	})
}

// HandleGetLogsByEventType - 이벤트 타입별 로그 조회
func (a *API) HandleGetLogsByEventType(c *fiber.Ctx) error {
	if a.store == nil {
		return storeUnavailable(c)
	}
	agentID := c.Query("agent_id", a.sim.AgentID())
	eventType := c.Query("event_type")

	if eventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "event_type parameter is required",
		})
	}

	logs, err := a.store.ByEventType(agentID, eventType, queryLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(logs),
		"event_type": eventType,
		"logs":       logs,
	})
}

// HandleGetLogStats - 로그 통계 조회
func (a *API) HandleGetLogStats(c *fiber.Ctx) error {
	if a.store == nil {
		return storeUnavailable(c)
	}
	agentID := c.Query("agent_id", a.sim.AgentID())

	hours, err := strconv.Atoi(c.Query("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := a.store.Stats(agentID, hours)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

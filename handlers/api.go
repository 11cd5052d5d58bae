package handlers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"vacuum-backend/models"
	"vacuum-backend/services"
)

var (
	errBadPayload     = errors.New("invalid payload")
	errUnknownCommand = errors.New("unknown command")
)

// LogQuerier - 활동 로그 조회 (ActivityStore)
type LogQuerier interface {
	Recent(agentID string, limit int) ([]models.ActivityLog, error)
	BySession(sessionID string, limit int) ([]models.ActivityLog, error)
	ByTimeRange(agentID string, start, end time.Time, limit int) ([]models.ActivityLog, error)
	ByEventType(agentID, eventType string, limit int) ([]models.ActivityLog, error)
	Stats(agentID string, hours int) (services.LogStats, error)
}

// API - HTTP/WebSocket 핸들러 묶음
type API struct {
	sim     *services.Simulator
	store   LogQuerier // DB가 없으면 nil
	manager *ClientManager
}

// NewAPI - 핸들러 생성. store가 nil이면 로그 API는 503을 돌려준다.
func NewAPI(sim *services.Simulator, store LogQuerier, manager *ClientManager) *API {
	return &API{
		sim:     sim,
		store:   store,
		manager: manager,
	}
}

// RegisterRoutes - 라우트 등록
func (a *API) RegisterRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("청소 로봇 시뮬레이션 서버가 실행 중입니다.")
	})

	api := app.Group("/api")

	api.Get("/health", a.HandleHealth)
	api.Get("/status", a.HandleStatus)
	api.Get("/map", a.HandleMap)
	api.Get("/rooms", a.HandleRooms)
	api.Post("/rooms/:name/dirty", a.HandleDirtyRoom)
	api.Post("/mode", a.HandleMode)

	manual := api.Group("/manual")
	manual.Post("/move", a.HandleManualMove)
	manual.Post("/clean", a.HandleManualClean)

	// 경로 탐색
	api.Post("/pathfinding", a.HandlePathfinding)

	// 로그 조회
	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", a.HandleGetRecentLogs)     // 최근 로그
	logsAPI.Get("/session", a.HandleGetSessionLogs)   // 현재 세션
	logsAPI.Get("/range", a.HandleGetLogsByTimeRange) // 시간 범위
	logsAPI.Get("/type", a.HandleGetLogsByEventType)  // 이벤트 타입별
	logsAPI.Get("/stats", a.HandleGetLogStats)        // 통계

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/web", websocket.New(a.HandleWebClientWebSocket))
}

// HandleHealth - 서버 상태
func (a *API) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "OK",
		"clients":    a.manager.ClientCount(),
		"session_id": a.sim.SessionID(),
		"database":   a.store != nil,
		"time":       time.Now().Format(time.RFC3339),
	})
}

// HandleStatus - 에이전트 상태 스냅샷
func (a *API) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(a.sim.Status())
}

// HandleMap - 정적 배치 정보
func (a *API) HandleMap(c *fiber.Ctx) error {
	return c.JSON(a.sim.Layout())
}

// HandleRooms - 방 상태 목록
func (a *API) HandleRooms(c *fiber.Ctx) error {
	rooms := a.sim.Rooms()
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(rooms),
		"rooms":   rooms,
	})
}

type dirtyRequest struct {
	Level string `json:"level"`
}

// HandleDirtyRoom - 방 오염 주입. level이 없으면 한 단계 올린다.
func (a *API) HandleDirtyRoom(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return a.fail(c, errBadPayload)
	}

	var req dirtyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return a.fail(c, errBadPayload)
		}
	}

	ev, err := a.sim.DirtyRoom(name, req.Level)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"event":   ev,
	})
}

// HandleMode - 자동/수동 모드 변경
func (a *API) HandleMode(c *fiber.Ctx) error {
	var req models.ModeChangeCommand
	if err := c.BodyParser(&req); err != nil {
		return a.fail(c, errBadPayload)
	}
	if err := a.sim.SetMode(req.Mode); err != nil {
		return a.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"mode":    req.Mode,
	})
}

// HandleManualMove - 수동 이동
func (a *API) HandleManualMove(c *fiber.Ctx) error {
	var req models.ManualMoveCommand
	if err := c.BodyParser(&req); err != nil {
		return a.fail(c, errBadPayload)
	}
	if err := a.sim.ManualMove(req.DX, req.DY); err != nil {
		return a.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"position": a.sim.Status().Position,
	})
}

// HandleManualClean - 현재 방 수동 청소 시작
func (a *API) HandleManualClean(c *fiber.Ctx) error {
	room, err := a.sim.ManualClean()
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"room":    room,
	})
}

// statusFor - 서비스 에러를 HTTP 상태 코드로
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidDirtLevel),
		errors.Is(err, services.ErrInvalidMode),
		errors.Is(err, errBadPayload),
		errors.Is(err, errUnknownCommand):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotManual),
		errors.Is(err, services.ErrNotInRoom):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorBody(command string, err error) fiber.Map {
	return fiber.Map{
		"command": command,
		"error":   err.Error(),
	}
}

func (a *API) fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

package services

import (
	"errors"
	"fmt"
	"log"
	"math"

	"vacuum-backend/algorithms"
	"vacuum-backend/models"
)

// stationKey - backoff 맵에서 스테이션을 가리키는 키 (방 이름과 겹치지 않음)
const stationKey = "#station"

var (
	// ErrNotManual - 수동 모드가 아닐 때 수동 명령
	ErrNotManual = errors.New("manual mode is not active")
	// ErrNotInRoom - 에이전트가 어떤 방 안에도 없음
	ErrNotInRoom = errors.New("agent is not inside a room")
)

// ControllerHooks - 상태 머신 이벤트 콜백 (nil 허용)
type ControllerHooks struct {
	OnTransition  func(models.TransitionEvent)
	OnRoomCleaned func(room *models.Room, simTime float64)
	OnRouteFailed func(target string, simTime float64)
}

// Controller - 에이전트 유한 상태 머신.
// 틱마다 Step을 한 번 호출하며, 경로 탐색/자원 모델/우선순위 정책을 조합한다.
type Controller struct {
	agent      *Agent
	env        *Environment
	pathfinder *PathFinder
	resources  ResourceModel
	hooks      ControllerHooks

	speed         float64 // 틱당 이동 거리
	parkAtStation bool
	retryBackoff  int

	tick    int
	backoff map[string]int // 방 이름 → 이 틱 전까지 후보에서 제외
	action  string
	manual  bool
	now     float64
}

// NewController - 상태 머신 생성
func NewController(agent *Agent, env *Environment, pathfinder *PathFinder, resources ResourceModel, speed float64, parkAtStation bool, retryBackoff int) *Controller {
	return &Controller{
		agent:         agent,
		env:           env,
		pathfinder:    pathfinder,
		resources:     resources,
		speed:         speed,
		parkAtStation: parkAtStation,
		retryBackoff:  retryBackoff,
		backoff:       make(map[string]int),
		action:        "Initialisation...",
	}
}

// SetHooks - 이벤트 콜백 설정
func (c *Controller) SetHooks(hooks ControllerHooks) {
	c.hooks = hooks
}

// Action - 현재 행동 설명 (표시용)
func (c *Controller) Action() string {
	return c.action
}

// SetAction - 상태 변화 없이 행동 설명만 바꾼다
func (c *Controller) SetAction(action string) {
	c.action = action
}

// Manual - 수동 모드 여부
func (c *Controller) Manual() bool {
	return c.manual
}

// Step - 상태 머신 한 번 평가. dt는 틱 시간(초), now는 시뮬레이션 경과 시간.
func (c *Controller) Step(dt, now float64) {
	if c.manual {
		return
	}
	c.tick++
	c.now = now

	switch c.agent.State {
	case models.StateIdle:
		c.decide()

	case models.StateMoving:
		if c.move(dt) {
			c.agent.clearPath()
			if c.agent.TargetRoom == nil {
				c.transition(models.StateIdle, "Arrivée sans cible")
				return
			}
			c.transition(models.StateCleaning, fmt.Sprintf("Nettoyage de %s...", c.agent.TargetRoom.Name))
		}

	case models.StateCleaning:
		if c.clean(dt) {
			c.finishCleaning()
		}

	case models.StateReturning:
		if c.move(dt) {
			c.agent.clearPath()
			c.dock()
		}

	case models.StateEmptying:
		a := c.agent
		var done bool
		a.DirtBin, a.Progress, done = c.resources.Empty(a.DirtBin, a.Progress, dt)
		if done {
			if c.resources.ShouldCharge(a.Battery) {
				c.transition(models.StateCharging, "🔋 Recharge...")
			} else {
				c.transition(models.StateIdle, "Maintenance terminée ✓")
			}
		}

	case models.StateCharging:
		a := c.agent
		var done bool
		a.Battery, done = c.resources.Charge(a.Battery, dt)
		a.Progress = a.Battery / c.resources.MaxBattery
		if done {
			c.transition(models.StateIdle, "Recharge terminée ✓")
		}
	}
}

// decide - Idle 상태: 유지보수 > 청소 > 대기 순으로 결정
func (c *Controller) decide() {
	a := c.agent

	if c.resources.NeedsMaintenance(a.Battery, a.DirtBin) {
		if c.inBackoff(stationKey) {
			c.action = "En attente → station inaccessible"
			return
		}
		c.returnToStation("⚠️ Maintenance → Station")
		return
	}

	candidates := c.candidates()
	if len(candidates) == 0 {
		if len(c.env.DirtyRooms()) == 0 {
			c.action = "Surveillance → Tout propre ✓"
		} else {
			c.action = "En attente → pièces inaccessibles"
		}
		return
	}

	target := SelectRoom(candidates, a.Visits)
	c.moveToRoom(target, fmt.Sprintf("Cible: %s (niveau %d)", target.Name, target.DirtValue()))
}

// candidates - 더럽고 재시도 대기 중이 아닌 방
func (c *Controller) candidates() []*models.Room {
	var rooms []*models.Room
	for _, room := range c.env.DirtyRooms() {
		if c.inBackoff(room.Name) {
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms
}

// inBackoff - 경로 실패 후 재시도 대기 중인지
func (c *Controller) inBackoff(key string) bool {
	until, ok := c.backoff[key]
	if !ok {
		return false
	}
	if c.tick < until {
		return true
	}
	delete(c.backoff, key)
	return false
}

// moveToRoom - 방까지 경로를 구해 Moving으로 전이. 경로가 없으면 Idle.
func (c *Controller) moveToRoom(room *models.Room, action string) bool {
	a := c.agent
	path := c.pathfinder.FindPath(a.Position, room.Center())
	if len(path) == 0 {
		c.routeFailed(room.Name, room.Name)
		return false
	}

	a.TargetRoom = room
	a.assignPath(path)
	c.transition(models.StateMoving, action)
	return true
}

// returnToStation - 스테이션까지 경로를 구해 Returning으로 전이. 경로가 없으면 Idle.
func (c *Controller) returnToStation(action string) bool {
	a := c.agent
	path := c.pathfinder.FindPath(a.Position, c.env.Station.Center())
	if len(path) == 0 {
		c.routeFailed(stationKey, "Station")
		return false
	}

	a.TargetRoom = nil
	a.assignPath(path)
	c.transition(models.StateReturning, action)
	return true
}

// routeFailed - 빈 경로: 이동 상태로 들어가지 않고 Idle로 돌아가며, 대상은 잠시 재시도하지 않는다
func (c *Controller) routeFailed(key, target string) {
	a := c.agent
	a.TargetRoom = nil
	a.clearPath()
	c.backoff[key] = c.tick + c.retryBackoff

	action := fmt.Sprintf("❌ %s inaccessible", target)
	log.Printf("❌ 경로 없음: %s (%.0f, %.0f)", target, a.Position.X, a.Position.Y)
	if c.hooks.OnRouteFailed != nil {
		c.hooks.OnRouteFailed(target, c.now)
	}

	if a.State != models.StateIdle {
		c.transition(models.StateIdle, action)
		return
	}
	c.action = action
}

// move - 경로 따라 한 틱 이동 + 배터리 소모. 배터리는 0에서 멈추고 이동은 계속된다.
func (c *Controller) move(dt float64) bool {
	a := c.agent
	arrived := a.advance(c.speed)
	a.Battery = c.resources.DrainMoving(a.Battery, dt)
	return arrived
}

// clean - 청소 한 틱. 진행도가 1에 도달하면 true.
// 배터리가 0이어도 진행도는 계속 오른다 (소모량만 0에서 고정).
func (c *Controller) clean(dt float64) bool {
	a := c.agent
	room := a.TargetRoom
	if room == nil {
		c.transition(models.StateIdle, "Nettoyage annulé")
		return false
	}

	var delta float64
	a.Battery, a.DirtBin, delta = c.resources.DrainCleaning(a.Battery, a.DirtBin, room.DirtValue(), dt)
	a.Progress = math.Min(1, a.Progress+delta)
	a.TimeCleaning += dt
	return a.Progress >= 1
}

// completeCleaning - 방을 깨끗하게 하고 청소 횟수를 한 번 올린다
func (c *Controller) completeCleaning() *models.Room {
	a := c.agent
	room := a.TargetRoom
	room.Clean(c.now)
	a.TotalCleanings++
	a.TargetRoom = nil
	log.Printf("🧹 %s 청소 완료 (총 %d회)", room.Name, a.TotalCleanings)

	if c.hooks.OnRoomCleaned != nil {
		c.hooks.OnRoomCleaned(room, c.now)
	}
	return room
}

// finishCleaning - 청소 완료 후 유지보수 > 다음 방 > 복귀/대기
func (c *Controller) finishCleaning() {
	c.completeCleaning()
	a := c.agent

	if c.resources.NeedsMaintenance(a.Battery, a.DirtBin) {
		c.returnToStation("Maintenance → Station")
		return
	}

	if candidates := c.candidates(); len(candidates) > 0 {
		target := SelectRoom(candidates, a.Visits)
		c.moveToRoom(target, fmt.Sprintf("Suivant: %s", target.Name))
		return
	}

	if c.parkAtStation {
		c.returnToStation("Terminé → Retour station")
		return
	}
	c.transition(models.StateIdle, "Terminé ✓")
}

// dock - 스테이션 도착: 비움 > 충전 > 대기
func (c *Controller) dock() {
	a := c.agent
	switch {
	case c.resources.ShouldEmpty(a.DirtBin):
		c.transition(models.StateEmptying, "🗑️ Vidage...")
	case c.resources.ShouldCharge(a.Battery):
		c.transition(models.StateCharging, "🔋 Recharge...")
	default:
		c.transition(models.StateIdle, "Station → En attente")
	}
}

// transition - 상태 변경, 진행도 초기화, 이벤트 통지
func (c *Controller) transition(to models.AgentState, action string) {
	a := c.agent
	from := a.State
	a.State = to
	c.action = action

	switch to {
	case models.StateCleaning, models.StateEmptying:
		a.Progress = 0
	case models.StateCharging:
		a.Progress = a.Battery / c.resources.MaxBattery
	default:
		a.Progress = 0
	}

	target := ""
	if a.TargetRoom != nil {
		target = a.TargetRoom.Name
	}
	log.Printf("🤖 %s → %s: %s", from, to, action)

	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(models.TransitionEvent{
			From:       from,
			To:         to,
			Action:     action,
			TargetRoom: target,
			Position:   a.Position,
			Battery:    Percent(a.Battery, c.resources.MaxBattery),
			DirtBin:    Percent(a.DirtBin, c.resources.MaxDirtCapacity),
			SimTime:    c.now,
		})
	}
}

// ========================================
// 수동 조작
// ========================================

// SetManual - 수동 모드 전환. 수동 모드에서는 Step이 아무것도 하지 않는다.
func (c *Controller) SetManual(on bool) {
	if c.manual == on {
		return
	}
	a := c.agent
	c.manual = on

	if on {
		// 진행 중이던 경로는 버린다
		if a.State == models.StateMoving || a.State == models.StateReturning {
			a.clearPath()
			a.TargetRoom = nil
			c.transition(models.StateIdle, "🎮 Mode manuel activé")
			return
		}
		c.action = "🎮 Mode manuel activé"
		return
	}

	// 수동으로 시작한 청소는 자동 모드에서 이어서 진행
	if a.State == models.StateCleaning && a.TargetRoom != nil {
		c.action = fmt.Sprintf("Nettoyage de %s...", a.TargetRoom.Name)
		return
	}
	a.clearPath()
	a.TargetRoom = nil
	if a.State != models.StateIdle {
		c.transition(models.StateIdle, "🤖 Mode automatique")
		return
	}
	c.action = "🤖 Mode automatique"
}

// ManualMove - 수동 이동. 월드 안쪽(오른쪽/아래 경계 제외)으로 고정하며 배터리가 0이면 움직이지 않는다.
func (c *Controller) ManualMove(dx, dy, dt float64) error {
	if !c.manual {
		return ErrNotManual
	}
	a := c.agent
	if a.Battery <= 0 {
		return nil
	}

	from := a.Position
	a.Position = algorithms.Point{
		X: clamp(a.Position.X+dx, 0, math.Nextafter(c.env.Width, 0)),
		Y: clamp(a.Position.Y+dy, 0, math.Nextafter(c.env.Height, 0)),
	}
	moved := math.Hypot(a.Position.X-from.X, a.Position.Y-from.Y)
	if moved > 0 {
		a.Angle = math.Atan2(a.Position.Y-from.Y, a.Position.X-from.X)
		a.TotalDistance += moved
		a.Battery = c.resources.DrainMoving(a.Battery, dt)
	}
	return nil
}

// ManualClean - 에이전트가 있는 방에서 청소 시작
func (c *Controller) ManualClean(now float64) (*models.Room, error) {
	if !c.manual {
		return nil, ErrNotManual
	}
	a := c.agent
	room := c.env.RoomAt(a.Position)
	if room == nil {
		return nil, ErrNotInRoom
	}
	if a.State == models.StateCleaning {
		return a.TargetRoom, nil
	}

	c.now = now
	a.clearPath()
	a.TargetRoom = room
	c.transition(models.StateCleaning, fmt.Sprintf("Nettoyage manuel: %s", room.Name))
	return room, nil
}

// ManualTick - 수동 모드 한 틱: 수동으로 시작한 청소만 진행한다 (결정은 하지 않음)
func (c *Controller) ManualTick(dt, now float64) {
	if !c.manual || c.agent.State != models.StateCleaning {
		return
	}
	c.now = now
	if c.clean(dt) {
		c.completeCleaning()
		c.transition(models.StateIdle, "Nettoyage manuel terminé ✓")
	}
}

package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"vacuum-backend/algorithms"
	"vacuum-backend/config"
	"vacuum-backend/models"
)

var (
	// ErrInvalidMode - auto/manual 이외의 모드
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidDirtLevel - 알 수 없는 오염도 이름
	ErrInvalidDirtLevel = errors.New("invalid dirt level")
)

// ActivityRecorder - 활동 로그 기록 대상 (LogBuffer)
type ActivityRecorder interface {
	Record(entry models.ActivityLog)
}

// StatusPublisher - 상태 텔레메트리 발행 대상 (TelemetryPublisher)
type StatusPublisher interface {
	Publish(status models.AgentStatus)
}

// Simulator - 환경, 에이전트, 경로 탐색기, 상태 머신을 소유하고 고정 간격 틱을 돌린다.
// 모든 변경은 mu를 잡은 한 번의 틱 또는 명령 안에서만 일어난다.
type Simulator struct {
	IsRunning     bool
	broadcastFunc func(models.WebSocketMessage)
	recorder      ActivityRecorder
	publisher     StatusPublisher

	agentID   string
	sessionID string

	env        *Environment
	agent      *Agent
	pathfinder *PathFinder
	controller *Controller
	resources  ResourceModel
	cellSize   float64

	// 시간
	tickInterval  time.Duration
	dt            float64
	elapsed       float64
	cycleTimer    float64
	cycleDuration float64
	ticks         int

	broadcastEvery int

	// 제어
	stopChan chan bool
	mu       sync.RWMutex
}

// NewSimulator - 기본 집 배치로 시뮬레이터 생성
func NewSimulator(cfg *config.Config, rng *rand.Rand) *Simulator {
	env := NewEnvironment(cfg.WorldWidth, cfg.WorldHeight, DefaultRooms(), DefaultObstacles(), DefaultStation(),
		rng, cfg.DirtIntervalMin, cfg.DirtIntervalMax)
	for _, room := range env.ScatterInitialDirt(cfg.InitialDirtyRooms, 0) {
		log.Printf("🗑️ %s → %s", room.Name, room.DirtLevel)
	}
	return NewSimulatorWithEnvironment(cfg, env)
}

// NewSimulatorWithEnvironment - 주어진 환경으로 시뮬레이터 생성. 에이전트는 스테이션에서 시작한다.
func NewSimulatorWithEnvironment(cfg *config.Config, env *Environment) *Simulator {
	resources := NewResourceModel(cfg)
	pathfinder := NewPathFinder(env, cfg.CellSize, algorithms.HeuristicByName(cfg.Heuristic))
	agent := NewAgent(env.Station.Center(), cfg.MaxBattery)
	controller := NewController(agent, env, pathfinder, resources, cfg.MoveSpeed, cfg.ParkAtStation, cfg.RetryBackoffTicks)

	s := &Simulator{
		agentID:        cfg.AgentID,
		sessionID:      uuid.New().String(),
		env:            env,
		agent:          agent,
		pathfinder:     pathfinder,
		controller:     controller,
		resources:      resources,
		cellSize:       cfg.CellSize,
		tickInterval:   cfg.TickInterval(),
		dt:             1 / float64(cfg.TickRate),
		cycleDuration:  cfg.CycleDuration,
		broadcastEvery: cfg.BroadcastEvery,
		stopChan:       make(chan bool),
	}
	controller.SetHooks(ControllerHooks{
		OnTransition:  s.onTransition,
		OnRoomCleaned: s.onRoomCleaned,
		OnRouteFailed: s.onRouteFailed,
	})
	return s
}

// SetBroadcastFunc - WebSocket 브로드캐스트 함수 설정
func (s *Simulator) SetBroadcastFunc(fn func(models.WebSocketMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastFunc = fn
}

// SetRecorder - 활동 로그 기록 대상 설정
func (s *Simulator) SetRecorder(r ActivityRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
	log.Println("💾 시뮬레이터에 활동 로그 연결됨")
}

// SetPublisher - 텔레메트리 발행 대상 설정
func (s *Simulator) SetPublisher(p StatusPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
	log.Println("📡 시뮬레이터에 텔레메트리 연결됨")
}

// SessionID - 이번 실행의 세션 ID
func (s *Simulator) SessionID() string {
	return s.sessionID
}

// AgentID - 에이전트 ID
func (s *Simulator) AgentID() string {
	return s.agentID
}

// Start - 시뮬레이션 시작
func (s *Simulator) Start() {
	s.mu.Lock()
	if s.IsRunning {
		s.mu.Unlock()
		return
	}
	s.IsRunning = true
	s.mu.Unlock()

	log.Printf("🚀 청소 시뮬레이터 시작 (session: %s)", s.sessionID)
	go s.runSimulation()
}

// Stop - 시뮬레이션 중지
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.IsRunning {
		s.mu.Unlock()
		return
	}
	s.IsRunning = false
	s.mu.Unlock()

	s.stopChan <- true
	log.Println("🛑 청소 시뮬레이터 중지")
}

// runSimulation - 시뮬레이션 메인 루프
func (s *Simulator) runSimulation() {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick - 고정 간격 한 틱
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step(s.dt)
}

// Advance - n틱 연속 실행
func (s *Simulator) Advance(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.step(s.dt)
	}
}

// step - 틱 순서: 오염 주입 → 분석 주기 → 상태 머신 1회 → 브로드캐스트
func (s *Simulator) step(dt float64) {
	s.ticks++
	s.elapsed += dt
	s.cycleTimer += dt

	if room := s.env.UpdateDirt(s.elapsed); room != nil {
		s.onDirt(room)
	}

	if s.controller.Manual() {
		s.controller.ManualTick(dt, s.elapsed)
	} else {
		s.controller.Step(dt, s.elapsed)
	}

	if s.cycleDuration > 0 && s.cycleTimer >= s.cycleDuration {
		s.cycleTimer = 0
		if s.agent.State == models.StateIdle && !s.controller.Manual() {
			s.controller.SetAction("Cycle: Analyse...")
		}
	}

	if s.broadcastEvery > 0 && s.ticks%s.broadcastEvery == 0 {
		s.broadcast(models.MessageTypeStatus, s.status())
	}
}

// ========================================
// 조회
// ========================================

// Status - 현재 상태 스냅샷
func (s *Simulator) Status() models.AgentStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status()
}

func (s *Simulator) status() models.AgentStatus {
	a := s.agent
	target := ""
	if a.TargetRoom != nil {
		target = a.TargetRoom.Name
	}
	mode := models.ModeAuto
	if s.controller.Manual() {
		mode = models.ModeManual
	}
	nextCycle := 0.0
	if s.cycleDuration > 0 {
		nextCycle = s.cycleDuration - s.cycleTimer
	}

	return models.AgentStatus{
		ID:            s.agentID,
		SessionID:     s.sessionID,
		Position:      a.Position,
		Angle:         a.Angle,
		State:         a.State,
		Mode:          mode,
		CurrentAction: s.controller.Action(),
		Progress:      a.Progress,
		Battery:       Percent(a.Battery, s.resources.MaxBattery),
		DirtBin:       Percent(a.DirtBin, s.resources.MaxDirtCapacity),
		TargetRoom:    target,
		Path:          a.RemainingPath(),
		Rooms:         s.rooms(),
		Stats: models.AgentStats{
			TotalDistance:  a.TotalDistance,
			TotalCleanings: a.TotalCleanings,
			TimeCleaning:   a.TimeCleaning,
			Cleanliness:    s.env.Cleanliness(),
		},
		ElapsedTime: s.elapsed,
		NextCycleIn: nextCycle,
		Timestamp:   time.Now(),
	}
}

// Rooms - 방 상태 목록
func (s *Simulator) Rooms() []models.RoomStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms()
}

func (s *Simulator) rooms() []models.RoomStatus {
	rooms := make([]models.RoomStatus, len(s.env.Rooms))
	for i, room := range s.env.Rooms {
		rooms[i] = models.RoomStatus{
			Name:        room.Name,
			Bounds:      room.Bounds,
			DirtLevel:   room.DirtLevel,
			Visits:      s.agent.Visits.Count(room.Name),
			LastCleaned: room.LastCleaned,
		}
	}
	return rooms
}

// Layout - 정적 배치 정보
func (s *Simulator) Layout() models.MapLayout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.env.Layout(s.cellSize)
}

// PlanRoute - 현재 장애물 기준 경로 계획 (에이전트 상태는 바꾸지 않음)
func (s *Simulator) PlanRoute(start, goal algorithms.Point, simplify bool) RouteResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pathfinder.PlanRoute(start, goal, simplify)
}

// ========================================
// 명령
// ========================================

// SetMode - 자동/수동 모드 변경
func (s *Simulator) SetMode(mode models.AgentMode) error {
	if mode != models.ModeAuto && mode != models.ModeManual {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	manual := mode == models.ModeManual
	if s.controller.Manual() == manual {
		return nil
	}
	s.controller.SetManual(manual)

	s.record(models.ActivityLog{EventType: models.EventModeChange, Action: s.controller.Action()})
	s.broadcast(models.MessageTypeModeChange, models.ModeChangeCommand{Mode: mode})
	log.Printf("🎮 모드 변경: %s", mode)
	return nil
}

// ManualMove - 수동 이동 (한 프레임 분량의 배터리 소모)
func (s *Simulator) ManualMove(dx, dy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.ManualMove(dx, dy, s.dt)
}

// ManualClean - 현재 위치한 방의 수동 청소 시작
func (s *Simulator) ManualClean() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.controller.ManualClean(s.elapsed)
	if err != nil {
		return "", err
	}
	return room.Name, nil
}

// DirtyRoom - 방 오염 주입. level이 비어 있으면 한 단계 올린다. 오염도는 내려가지 않는다.
func (s *Simulator) DirtyRoom(name, level string) (models.DirtEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.env.Room(name)
	if err != nil {
		return models.DirtEvent{}, err
	}

	var changed bool
	if level == "" {
		changed = room.MakeDirty(s.elapsed)
	} else {
		parsed, err := models.ParseDirtLevel(level)
		if err != nil {
			return models.DirtEvent{}, fmt.Errorf("%w: %v", ErrInvalidDirtLevel, err)
		}
		changed = room.SetDirt(parsed, s.elapsed)
	}

	// 변화가 없으면 기록/브로드캐스트하지 않고 현재 오염도만 돌려준다
	if changed {
		s.onDirt(room)
	}
	return models.DirtEvent{Room: room.Name, DirtLevel: room.DirtLevel, SimTime: s.elapsed}, nil
}

// ========================================
// 이벤트 (mu를 잡은 상태에서 호출됨)
// ========================================

func (s *Simulator) onTransition(ev models.TransitionEvent) {
	s.record(models.ActivityLog{
		EventType:  models.EventTransition,
		FromState:  string(ev.From),
		ToState:    string(ev.To),
		Action:     ev.Action,
		TargetRoom: ev.TargetRoom,
	})
	s.broadcast(models.MessageTypeTransition, ev)

	if s.publisher != nil {
		s.publisher.Publish(s.status())
	}
}

func (s *Simulator) onRoomCleaned(room *models.Room, simTime float64) {
	s.record(models.ActivityLog{
		EventType:  models.EventRoomCleaned,
		TargetRoom: room.Name,
		RoomLevel:  room.DirtLevel.String(),
	})
	s.broadcast(models.MessageTypeRoomCleaned, models.DirtEvent{Room: room.Name, DirtLevel: room.DirtLevel, SimTime: simTime})
}

func (s *Simulator) onRouteFailed(target string, simTime float64) {
	s.record(models.ActivityLog{
		EventType:  models.EventRouteFailed,
		TargetRoom: target,
		Action:     s.controller.Action(),
	})
}

func (s *Simulator) onDirt(room *models.Room) {
	s.record(models.ActivityLog{
		EventType:  models.EventDirtInjected,
		TargetRoom: room.Name,
		RoomLevel:  room.DirtLevel.String(),
	})
	s.broadcast(models.MessageTypeDirtUpdate, models.DirtEvent{Room: room.Name, DirtLevel: room.DirtLevel, SimTime: s.elapsed})
}

// record - 공통 필드를 채워 활동 로그 기록
func (s *Simulator) record(entry models.ActivityLog) {
	if s.recorder == nil {
		return
	}
	a := s.agent
	entry.CreatedAt = time.Now()
	entry.SessionID = s.sessionID
	entry.AgentID = s.agentID
	entry.PositionX = a.Position.X
	entry.PositionY = a.Position.Y
	entry.Battery = Percent(a.Battery, s.resources.MaxBattery)
	entry.DirtBin = Percent(a.DirtBin, s.resources.MaxDirtCapacity)
	entry.SimTime = s.elapsed
	s.recorder.Record(entry)
}

// broadcast - WebSocket 메시지 전송
func (s *Simulator) broadcast(msgType string, data interface{}) {
	if s.broadcastFunc == nil {
		return
	}
	s.broadcastFunc(models.WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

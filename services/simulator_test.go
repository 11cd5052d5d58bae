package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacuum-backend/algorithms"
	"vacuum-backend/models"
)

type recordedLogs struct {
	entries []models.ActivityLog
}

func (r *recordedLogs) Record(entry models.ActivityLog) {
	r.entries = append(r.entries, entry)
}

func (r *recordedLogs) ofType(eventType string) []models.ActivityLog {
	var out []models.ActivityLog
	for _, e := range r.entries {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordedStatus struct {
	statuses []models.AgentStatus
}

func (r *recordedStatus) Publish(status models.AgentStatus) {
	r.statuses = append(r.statuses, status)
}

func newTestSimulator(t *testing.T) (*Simulator, *recordedLogs, *[]models.WebSocketMessage) {
	t.Helper()
	cfg := testConfig()
	env := NewEnvironment(cfg.WorldWidth, cfg.WorldHeight, DefaultRooms(), DefaultObstacles(), DefaultStation(), rand.New(rand.NewSource(1)), 0, 0)
	sim := NewSimulatorWithEnvironment(cfg, env)

	logs := &recordedLogs{}
	var messages []models.WebSocketMessage
	sim.SetRecorder(logs)
	sim.SetBroadcastFunc(func(msg models.WebSocketMessage) {
		messages = append(messages, msg)
	})
	return sim, logs, &messages
}

func messagesOfType(messages []models.WebSocketMessage, msgType string) []models.WebSocketMessage {
	var out []models.WebSocketMessage
	for _, m := range messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func TestSimulator_InitialStatus(t *testing.T) {
	sim, _, _ := newTestSimulator(t)

	status := sim.Status()
	assert.Equal(t, models.StateIdle, status.State)
	assert.Equal(t, models.ModeAuto, status.Mode)
	assert.Equal(t, 100.0, status.Battery)
	assert.Equal(t, 0.0, status.DirtBin)
	assert.Equal(t, algorithms.Point{X: 350, Y: 390}, status.Position)
	assert.Len(t, status.Rooms, 5)
	assert.NotEmpty(t, status.SessionID)
	assert.Equal(t, "", status.TargetRoom)
	assert.Empty(t, status.Path)
	assert.Equal(t, 100.0, status.Stats.Cleanliness)
}

func TestSimulator_NewSimulatorScattersInitialDirt(t *testing.T) {
	cfg := testConfig()
	cfg.InitialDirtyRooms = 2
	sim := NewSimulator(cfg, rand.New(rand.NewSource(3)))

	dirty := 0
	for _, room := range sim.Rooms() {
		if room.DirtLevel != models.DirtClean {
			dirty++
		}
	}
	assert.Equal(t, 2, dirty)
}

func TestSimulator_CleansDirtySalonEndToEnd(t *testing.T) {
	sim, logs, messages := newTestSimulator(t)

	_, err := sim.DirtyRoom("Salon", "DIRTY")
	require.NoError(t, err)

	cleaned := false
	for i := 0; i < 20000; i++ {
		sim.Tick()
		st := sim.Status()
		if st.Stats.TotalCleanings == 1 && st.State == models.StateIdle {
			cleaned = true
			break
		}
	}
	require.True(t, cleaned)

	status := sim.Status()
	assert.Equal(t, models.DirtClean, status.Rooms[0].DirtLevel)
	assert.Equal(t, 1, status.Rooms[0].Visits)
	assert.Greater(t, status.Rooms[0].LastCleaned, 0.0)
	assert.Equal(t, algorithms.Point{X: 350, Y: 390}, status.Position)

	transitions := logs.ofType(models.EventTransition)
	require.NotEmpty(t, transitions)
	assert.Equal(t, "idle", transitions[0].FromState)
	assert.Equal(t, "moving", transitions[0].ToState)
	assert.Equal(t, "Salon", transitions[0].TargetRoom)
	assert.Equal(t, "cleaning", transitions[1].ToState)

	assert.Len(t, logs.ofType(models.EventRoomCleaned), 1)
	assert.Len(t, messagesOfType(*messages, models.MessageTypeRoomCleaned), 1)
	assert.NotEmpty(t, messagesOfType(*messages, models.MessageTypeStatus))

	for _, entry := range logs.entries {
		assert.Equal(t, sim.SessionID(), entry.SessionID)
		assert.Equal(t, sim.AgentID(), entry.AgentID)
	}
}

func TestSimulator_PublishesStatusOnTransition(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	pub := &recordedStatus{}
	sim.SetPublisher(pub)

	_, err := sim.DirtyRoom("Cuisine", "")
	require.NoError(t, err)
	sim.Tick()

	require.Len(t, pub.statuses, 1)
	assert.Equal(t, models.StateMoving, pub.statuses[0].State)
	assert.Equal(t, "Cuisine", pub.statuses[0].TargetRoom)
}

func TestSimulator_DirtyRoom(t *testing.T) {
	sim, logs, messages := newTestSimulator(t)

	ev, err := sim.DirtyRoom("Chambre A", "")
	require.NoError(t, err)
	assert.Equal(t, models.DirtDusty, ev.DirtLevel)

	ev, err = sim.DirtyRoom("Chambre A", "very_dirty")
	require.NoError(t, err)
	assert.Equal(t, models.DirtVeryDirty, ev.DirtLevel)

	ev, err = sim.DirtyRoom("Chambre A", "clean")
	require.NoError(t, err)
	assert.Equal(t, models.DirtVeryDirty, ev.DirtLevel, "not lowered")
	ev, err = sim.DirtyRoom("Chambre A", "")
	require.NoError(t, err)
	assert.Equal(t, models.DirtVeryDirty, ev.DirtLevel)

	_, err = sim.DirtyRoom("Garage", "")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = sim.DirtyRoom("Salon", "filthy")
	assert.ErrorIs(t, err, ErrInvalidDirtLevel)

	assert.Len(t, logs.ofType(models.EventDirtInjected), 2)
	assert.Len(t, messagesOfType(*messages, models.MessageTypeDirtUpdate), 2)
}

func TestSimulator_AutomaticDirtInjection(t *testing.T) {
	cfg := testConfig()
	cfg.DirtIntervalMin = 0.1
	cfg.DirtIntervalMax = 0.1
	env := NewEnvironment(cfg.WorldWidth, cfg.WorldHeight, DefaultRooms(), DefaultObstacles(), DefaultStation(),
		rand.New(rand.NewSource(1)), cfg.DirtIntervalMin, cfg.DirtIntervalMax)
	sim := NewSimulatorWithEnvironment(cfg, env)
	logs := &recordedLogs{}
	sim.SetRecorder(logs)

	sim.Advance(60)

	assert.NotEmpty(t, logs.ofType(models.EventDirtInjected))
}

func TestSimulator_BroadcastsStatusPeriodically(t *testing.T) {
	sim, _, messages := newTestSimulator(t)

	sim.Advance(12)

	assert.Len(t, messagesOfType(*messages, models.MessageTypeStatus), 2)
}

func TestSimulator_CycleTimer(t *testing.T) {
	cfg := testConfig()
	cfg.CycleDuration = 0.1
	env := NewEnvironment(cfg.WorldWidth, cfg.WorldHeight, DefaultRooms(), DefaultObstacles(), DefaultStation(), rand.New(rand.NewSource(1)), 0, 0)
	sim := NewSimulatorWithEnvironment(cfg, env)

	seen := false
	for i := 0; i < 20 && !seen; i++ {
		sim.Tick()
		seen = sim.Status().CurrentAction == "Cycle: Analyse..."
	}
	assert.True(t, seen)
	assert.LessOrEqual(t, sim.Status().NextCycleIn, cfg.CycleDuration)
}

func TestSimulator_Modes(t *testing.T) {
	sim, logs, messages := newTestSimulator(t)

	assert.ErrorIs(t, sim.SetMode("turbo"), ErrInvalidMode)
	assert.ErrorIs(t, sim.ManualMove(10, 0), ErrNotManual)

	require.NoError(t, sim.SetMode(models.ModeManual))
	assert.Equal(t, models.ModeManual, sim.Status().Mode)
	assert.Len(t, logs.ofType(models.EventModeChange), 1)
	assert.Len(t, messagesOfType(*messages, models.MessageTypeModeChange), 1)

	require.NoError(t, sim.SetMode(models.ModeManual), "no-op")
	assert.Len(t, logs.ofType(models.EventModeChange), 1)

	require.NoError(t, sim.ManualMove(0, -100))
	assert.Equal(t, algorithms.Point{X: 350, Y: 290}, sim.Status().Position)

	// (350, 290)은 어느 방에도 속하지 않는다 (Salon과 Cuisine 사이)
	_, err := sim.ManualClean()
	assert.ErrorIs(t, err, ErrNotInRoom)

	require.NoError(t, sim.ManualMove(-100, 0))
	name, err := sim.ManualClean()
	require.NoError(t, err)
	assert.Equal(t, "Salon", name)
	assert.Equal(t, models.StateCleaning, sim.Status().State)

	require.NoError(t, sim.SetMode(models.ModeAuto))
	assert.Equal(t, models.ModeAuto, sim.Status().Mode)
	assert.Equal(t, models.StateCleaning, sim.Status().State, "manual cleaning carries on in auto mode")
}

func TestSimulator_PlanRoute(t *testing.T) {
	sim, _, _ := newTestSimulator(t)

	full := sim.PlanRoute(algorithms.Point{X: 350, Y: 390}, algorithms.Point{X: 200, Y: 175}, false)
	require.True(t, full.Found)
	assert.Greater(t, full.Cost, 0.0)

	simple := sim.PlanRoute(algorithms.Point{X: 350, Y: 390}, algorithms.Point{X: 200, Y: 175}, true)
	require.True(t, simple.Found)
	assert.LessOrEqual(t, len(simple.Path), len(full.Path))
	assert.Equal(t, full.Path[0], simple.Path[0])
	assert.Equal(t, full.Path[len(full.Path)-1], simple.Path[len(simple.Path)-1])

	blocked := sim.PlanRoute(algorithms.Point{X: 350, Y: 390}, algorithms.Point{X: 210, Y: 210}, false)
	assert.False(t, blocked.Found)
	assert.Empty(t, blocked.Path)
}

func TestSimulator_StartStop(t *testing.T) {
	sim, _, _ := newTestSimulator(t)

	sim.Start()
	assert.Eventually(t, func() bool {
		return sim.Status().ElapsedTime > 0
	}, time.Second, 10*time.Millisecond)
	sim.Stop()

	elapsed := sim.Status().ElapsedTime
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, elapsed, sim.Status().ElapsedTime)
}

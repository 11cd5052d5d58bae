package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"vacuum-backend/models"
)

// Client - 웹 클라이언트 연결. 브로드캐스트와 명령 응답이 같은 연결에 쓰므로 쓰기를 직렬화한다.
type Client struct {
	Conn *websocket.Conn
	mu   sync.Mutex
}

// WriteJSON - 연결에 JSON 메시지 쓰기
func (cl *Client) WriteJSON(msg models.WebSocketMessage) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.Conn.WriteJSON(msg)
}

// ClientManager - 웹 클라이언트 관리 및 브로드캐스트
type ClientManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// NewClientManager - 클라이언트 관리자 생성
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan models.WebSocketMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Start - 클라이언트 관리 루프
func (manager *ClientManager) Start() {
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.Conn] = client
			manager.mutex.Unlock()
			log.Printf("클라이언트 등록: %s", client.Conn.RemoteAddr())

		case conn := <-manager.unregister:
			manager.remove(conn)

		case message := <-manager.broadcast:
			manager.handleBroadcast(message)
		}
	}
}

func (manager *ClientManager) remove(conn *websocket.Conn) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	if _, ok := manager.clients[conn]; ok {
		delete(manager.clients, conn)
		_ = conn.Close()
		log.Printf("클라이언트 해제: %s", conn.RemoteAddr())
	}
}

func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) {
	var failed []*websocket.Conn

	manager.mutex.RLock()
	for conn, client := range manager.clients {
		if err := client.WriteJSON(message); err != nil {
			log.Printf("전송 실패 (%s): %v", conn.RemoteAddr(), err)
			failed = append(failed, conn)
		}
	}
	manager.mutex.RUnlock()

	for _, conn := range failed {
		manager.remove(conn)
	}
}

// BroadcastMessage - 모든 웹 클라이언트에 전송. 틱 루프에서 호출되므로 채널이 차면 버린다.
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) {
	select {
	case manager.broadcast <- msg:
	default:
		log.Println("⚠️ broadcast 채널 가득 참")
	}
}

// ClientCount - 연결된 웹 클라이언트 수
func (manager *ClientManager) ClientCount() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return len(manager.clients)
}

// incomingMessage - 웹 클라이언트 명령 (Data는 타입에 따라 나중에 해석)
type incomingMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleWebClientWebSocket - 웹 클라이언트 WebSocket: 연결 시 배치/상태 전송 후 명령 처리
func (a *API) HandleWebClientWebSocket(c *websocket.Conn) {
	client := &Client{Conn: c}
	a.manager.register <- client

	defer func() {
		a.manager.unregister <- c
	}()

	now := time.Now().UnixMilli()
	_ = client.WriteJSON(models.WebSocketMessage{
		Type: models.MessageTypeSystemInfo,
		Data: map[string]interface{}{
			"message":      "웹 클라이언트 연결됨",
			"session_id":   a.sim.SessionID(),
			"connected_at": time.Now().Format(time.RFC3339),
		},
		Timestamp: now,
	})
	_ = client.WriteJSON(models.WebSocketMessage{Type: models.MessageTypeMapUpdate, Data: a.sim.Layout(), Timestamp: now})
	_ = client.WriteJSON(models.WebSocketMessage{Type: models.MessageTypeStatus, Data: a.sim.Status(), Timestamp: now})

	for {
		var msg incomingMessage
		if err := c.ReadJSON(&msg); err != nil {
			log.Printf("웹 메시지 읽기 오류: %v", err)
			break
		}

		if err := a.handleCommand(msg); err != nil {
			log.Printf("⚠️ 명령 처리 실패 (%s): %v", msg.Type, err)
			_ = client.WriteJSON(models.WebSocketMessage{
				Type:      models.MessageTypeError,
				Data:      errorBody(msg.Type, err),
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}
}

// handleCommand - 웹 클라이언트 명령을 시뮬레이터로 전달
func (a *API) handleCommand(msg incomingMessage) error {
	switch msg.Type {
	case models.MessageTypeModeChange:
		var cmd models.ModeChangeCommand
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return a.sim.SetMode(cmd.Mode)

	case models.MessageTypeManualMove:
		var cmd models.ManualMoveCommand
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return a.sim.ManualMove(cmd.DX, cmd.DY)

	case models.MessageTypeManualClean:
		_, err := a.sim.ManualClean()
		return err

	case models.MessageTypeDirty:
		var cmd models.DirtyCommand
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		_, err := a.sim.DirtyRoom(cmd.Room, cmd.Level)
		return err

	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, msg.Type)
	}
}

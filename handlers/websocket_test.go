package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vacuum-backend/models"
)

func TestClientManager_BroadcastNeverBlocks(t *testing.T) {
	manager := NewClientManager()

	done := make(chan struct{})
	go func() {
		// Start 없이 채널 용량을 넘겨 보낸다
		for i := 0; i < 1000; i++ {
			manager.BroadcastMessage(models.WebSocketMessage{Type: models.MessageTypeStatus})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastMessage blocked")
	}
	assert.Equal(t, 0, manager.ClientCount())
}

func TestClientManager_BroadcastWithoutClients(t *testing.T) {
	manager := NewClientManager()
	go manager.Start()

	manager.BroadcastMessage(models.WebSocketMessage{Type: models.MessageTypeStatus})

	assert.Eventually(t, func() bool { return len(manager.broadcast) == 0 }, time.Second, 5*time.Millisecond)
}

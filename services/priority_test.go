package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacuum-backend/models"
)

func roomWithLevel(name string, level models.DirtLevel) *models.Room {
	room := models.NewRoom(name, 0, 0, 100, 100)
	room.DirtLevel = level
	return room
}

func TestSelectRoom_PrefersDirtierRoom(t *testing.T) {
	for i := 0; i < 10; i++ {
		dirty := roomWithLevel("Cuisine", models.DirtDirty)
		veryDirty := roomWithLevel("Salon", models.DirtVeryDirty)
		memory := NewVisitMemory()

		got := SelectRoom([]*models.Room{dirty, veryDirty}, memory)
		require.NotNil(t, got)
		assert.Equal(t, "Salon", got.Name)
	}
}

func TestSelectRoom_VisitsBreakEvenScores(t *testing.T) {
	dusty := roomWithLevel("Couloir", models.DirtDusty)
	dirty := roomWithLevel("Chambre A", models.DirtDirty)
	memory := NewVisitMemory()
	for i := 0; i < 5; i++ {
		memory.Record("Couloir")
	}

	// 1*2 + 5*0.5 = 4.5 > 2*2
	got := SelectRoom([]*models.Room{dirty, dusty}, memory)
	assert.Equal(t, "Couloir", got.Name)
}

func TestSelectRoom_TieGoesToFirst(t *testing.T) {
	a := roomWithLevel("Chambre A", models.DirtDirty)
	b := roomWithLevel("Chambre B", models.DirtDirty)

	assert.Equal(t, "Chambre A", SelectRoom([]*models.Room{a, b}, NewVisitMemory()).Name)
	assert.Equal(t, "Chambre B", SelectRoom([]*models.Room{b, a}, NewVisitMemory()).Name)
}

func TestSelectRoom_RecordsVisit(t *testing.T) {
	room := roomWithLevel("Salon", models.DirtDusty)
	memory := NewVisitMemory()

	assert.Equal(t, 0, memory.Count("Salon"))
	SelectRoom([]*models.Room{room}, memory)
	SelectRoom([]*models.Room{room}, memory)
	assert.Equal(t, 2, memory.Count("Salon"))
	assert.Equal(t, 0, memory.Count("Cuisine"))
}

func TestSelectRoom_EmptyCandidates(t *testing.T) {
	memory := NewVisitMemory()
	assert.Nil(t, SelectRoom(nil, memory))
	assert.Empty(t, memory.counts)
}

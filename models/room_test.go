package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacuum-backend/algorithms"
)

func TestParseDirtLevel(t *testing.T) {
	tests := []struct {
		in   string
		want DirtLevel
	}{
		{"CLEAN", DirtClean},
		{"dusty", DirtDusty},
		{"Dirty", DirtDirty},
		{"very_dirty", DirtVeryDirty},
	}
	for _, tt := range tests {
		got, err := ParseDirtLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseDirtLevel("filthy")
	assert.Error(t, err)
}

func TestDirtLevel_JSON(t *testing.T) {
	raw, err := json.Marshal(RoomStatus{Name: "Salon", DirtLevel: DirtVeryDirty})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"dirt_level":"VERY_DIRTY"`)

	var cmd struct {
		Level DirtLevel `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"dusty"}`), &cmd))
	assert.Equal(t, DirtDusty, cmd.Level)

	assert.Equal(t, "DirtLevel(7)", DirtLevel(7).String())
}

func TestRoom_DirtTransitions(t *testing.T) {
	room := NewRoom("Salon", 50, 50, 300, 250)
	assert.False(t, room.IsDirty())

	for i := 0; i < 3; i++ {
		assert.True(t, room.MakeDirty(float64(i)))
	}
	assert.False(t, room.MakeDirty(3))
	assert.False(t, room.MakeDirty(4))
	assert.Equal(t, DirtVeryDirty, room.DirtLevel, "capped")
	assert.Equal(t, []float64{0, 1, 2}, room.DirtHistory, "only rises are recorded")

	assert.False(t, room.SetDirt(DirtDusty, 6))
	assert.False(t, room.SetDirt(DirtClean, 6))
	assert.Equal(t, DirtVeryDirty, room.DirtLevel, "never lowered by a dirt event")
	assert.Len(t, room.DirtHistory, 3)

	room.Clean(7)
	assert.Equal(t, DirtClean, room.DirtLevel)
	assert.Equal(t, 7.0, room.LastCleaned)
	assert.Equal(t, 0, room.DirtValue())
}

func TestRoom_Contains(t *testing.T) {
	room := NewRoom("Salon", 50, 50, 300, 250)

	assert.True(t, room.Contains(room.Center()))
	assert.False(t, room.Contains(algorithms.Point{X: 50, Y: 100}), "boundary excluded")
	assert.False(t, room.Contains(algorithms.Point{X: 400, Y: 100}))
	assert.Equal(t, algorithms.Point{X: 200, Y: 175}, room.Center())
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vacuum-backend/config"
)

func testResourceModel() ResourceModel {
	cfg := config.Default()
	return NewResourceModel(cfg)
}

func TestResourceModel_DrainMoving(t *testing.T) {
	m := testResourceModel()

	assert.InDelta(t, 99.7, m.DrainMoving(100, 1), 1e-9)
	assert.Equal(t, 0.0, m.DrainMoving(0.1, 1), "clamped at zero")
}

func TestResourceModel_DrainCleaning(t *testing.T) {
	m := testResourceModel()

	assert.InDelta(t, 6.0, m.CleaningDuration(2), 1e-9)

	battery, bin, delta := m.DrainCleaning(100, 0, 2, 1)
	assert.InDelta(t, 97.0, battery, 1e-9) // 1.5 * (1 + 2*0.5)
	assert.InDelta(t, 25.0/6, bin, 1e-9)
	assert.InDelta(t, 1.0/6, delta, 1e-9)

	battery, bin, _ = m.DrainCleaning(1, 99, 3, 2)
	assert.Equal(t, 0.0, battery)
	assert.Equal(t, 100.0, bin)
}

func TestResourceModel_FullCleaningFillsOneLoad(t *testing.T) {
	m := testResourceModel()
	dt := 1.0 / 60

	bin, progress := 0.0, 0.0
	battery := 100.0
	for progress < 1 {
		var delta float64
		battery, bin, delta = m.DrainCleaning(battery, bin, 1, dt)
		progress += delta
	}
	assert.InDelta(t, m.DirtPerClean, bin, 0.5)
	assert.InDelta(t, 100-1.5*1.5*4, battery, 0.1)
}

func TestResourceModel_Charge(t *testing.T) {
	m := testResourceModel()

	battery, done := m.Charge(50, 1)
	assert.InDelta(t, 70.0, battery, 1e-9)
	assert.False(t, done)

	battery, done = m.Charge(95, 1)
	assert.Equal(t, 100.0, battery)
	assert.True(t, done)
}

func TestResourceModel_Empty(t *testing.T) {
	m := testResourceModel()

	bin, progress, done := m.Empty(100, 0, 1)
	assert.InDelta(t, 50.0, bin, 1e-9)
	assert.InDelta(t, 0.5, progress, 1e-9)
	assert.False(t, done)

	bin, _, done = m.Empty(10, progress, 1)
	assert.Equal(t, 0.0, bin)
	assert.True(t, done)
}

func TestResourceModel_Thresholds(t *testing.T) {
	m := testResourceModel()

	cases := []struct {
		name             string
		battery, dirtBin float64
		want             bool
	}{
		{"healthy", 80, 10, false},
		{"low battery", 20, 10, true},
		{"at threshold", 25, 10, false},
		{"bin full", 80, 100, true},
		{"bin nearly full", 80, 99.9, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.NeedsMaintenance(tc.battery, tc.dirtBin))
		})
	}

	assert.True(t, m.ShouldEmpty(80))
	assert.False(t, m.ShouldEmpty(79.9))
	assert.True(t, m.ShouldCharge(89.9))
	assert.False(t, m.ShouldCharge(90))
}

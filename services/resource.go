package services

import (
	"math"

	"vacuum-backend/config"
)

// ResourceModel - 배터리 소모, 먼지 누적, 충전, 비움 계산.
// 모든 메서드는 순수 함수이며 결과를 [0, 최대값]으로 고정한다.
type ResourceModel struct {
	MaxBattery          float64
	MaxDirtCapacity     float64
	DrainMove           float64 // 이동 중 초당 소모
	DrainClean          float64 // 청소 중 초당 기본 소모
	ChargeRate          float64 // 초당 충전량
	CleaningBaseTime    float64 // 오염도 0 기준 청소 시간 (초)
	EmptyDuration       float64 // 먼지통 비우는 시간 (초)
	DirtPerClean        float64 // 청소 한 번에 쌓이는 먼지
	LowBatteryThreshold float64
	EmptyThreshold      float64 // 용량 대비 비율
	ChargeThreshold     float64
}

// NewResourceModel - 설정에서 자원 모델 생성
func NewResourceModel(cfg *config.Config) ResourceModel {
	return ResourceModel{
		MaxBattery:          cfg.MaxBattery,
		MaxDirtCapacity:     cfg.MaxDirtCapacity,
		DrainMove:           cfg.BatteryDrainMove,
		DrainClean:          cfg.BatteryDrainClean,
		ChargeRate:          cfg.ChargeRate,
		CleaningBaseTime:    cfg.CleaningBaseTime,
		EmptyDuration:       cfg.EmptyDuration,
		DirtPerClean:        cfg.DirtPerClean,
		LowBatteryThreshold: cfg.LowBatteryThreshold,
		EmptyThreshold:      cfg.EmptyThreshold,
		ChargeThreshold:     cfg.ChargeThreshold,
	}
}

// DrainMoving - 이동 중 배터리 소모
func (m ResourceModel) DrainMoving(battery, dt float64) float64 {
	return clamp(battery-m.DrainMove*dt, 0, m.MaxBattery)
}

// CleaningDuration - 오염도가 높을수록 오래 걸린다
func (m ResourceModel) CleaningDuration(dirtValue int) float64 {
	return m.CleaningBaseTime * float64(1+dirtValue)
}

// DrainCleaning - 청소 한 틱: 배터리 소모, 먼지통 증가, 진행도 증가분 반환
func (m ResourceModel) DrainCleaning(battery, dirtBin float64, dirtValue int, dt float64) (float64, float64, float64) {
	duration := m.CleaningDuration(dirtValue)
	drain := m.DrainClean * (1 + float64(dirtValue)*0.5)

	battery = clamp(battery-drain*dt, 0, m.MaxBattery)
	dirtBin = clamp(dirtBin+m.DirtPerClean*dt/duration, 0, m.MaxDirtCapacity)
	return battery, dirtBin, dt / duration
}

// Charge - 충전 한 틱. 최대치에 도달하면 done=true
func (m ResourceModel) Charge(battery, dt float64) (float64, bool) {
	battery = clamp(battery+m.ChargeRate*dt, 0, m.MaxBattery)
	return battery, battery >= m.MaxBattery
}

// Empty - 먼지통 비우기 한 틱. EmptyDuration이 지나면 done=true
func (m ResourceModel) Empty(dirtBin, progress, dt float64) (float64, float64, bool) {
	dirtBin = clamp(dirtBin-m.MaxDirtCapacity*dt/m.EmptyDuration, 0, m.MaxDirtCapacity)
	progress += dt / m.EmptyDuration
	return dirtBin, progress, progress >= 1
}

// NeedsMaintenance - 배터리 부족 또는 먼지통 가득
func (m ResourceModel) NeedsMaintenance(battery, dirtBin float64) bool {
	return battery < m.LowBatteryThreshold || dirtBin >= m.MaxDirtCapacity
}

// ShouldEmpty - 스테이션 도착 시 비워야 하는지
func (m ResourceModel) ShouldEmpty(dirtBin float64) bool {
	return dirtBin >= m.MaxDirtCapacity*m.EmptyThreshold
}

// ShouldCharge - 스테이션 도착 시 충전해야 하는지
func (m ResourceModel) ShouldCharge(battery float64) bool {
	return battery < m.ChargeThreshold
}

// Percent - 값을 최대치 대비 백분율로
func Percent(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return value / max * 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

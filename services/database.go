package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"vacuum-backend/config"
	"vacuum-backend/models"
)

// ErrDatabaseDisabled - MySQL 접속 정보가 설정되지 않음
var ErrDatabaseDisabled = errors.New("database is not configured")

// ActivityStore - 활동 로그 MySQL 저장소
type ActivityStore struct {
	db *gorm.DB
}

// LogStats - 기간별 로그 통계
type LogStats struct {
	TotalLogs   int64            `json:"total_logs"`
	EventCounts map[string]int64 `json:"event_counts"`
	TimeRange   string           `json:"time_range"`
}

// OpenActivityStore - 설정으로 MySQL 연결 후 마이그레이션
func OpenActivityStore(cfg *config.Config) (*ActivityStore, error) {
	if !cfg.DatabaseEnabled() {
		return nil, fmt.Errorf("%w: MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE", ErrDatabaseDisabled)
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("DB 연결 실패: %w", err)
	}

	store, err := NewActivityStore(db)
	if err != nil {
		return nil, err
	}

	log.Printf("📡 연결 정보: %s@%s:%d/%s", cfg.MySQLUser, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)
	return store, nil
}

// NewActivityStore - 이미 연결된 gorm DB로 저장소 생성 (테이블 자동 생성)
func NewActivityStore(db *gorm.DB) (*ActivityStore, error) {
	if err := db.AutoMigrate(&models.ActivityLog{}); err != nil {
		return nil, fmt.Errorf("마이그레이션 실패: %w", err)
	}
	log.Println("✅ MySQL 연결 및 마이그레이션 완료")
	return &ActivityStore{db: db}, nil
}

// SaveBatch - 로그 일괄 저장
func (s *ActivityStore) SaveBatch(entries []models.ActivityLog) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.CreateInBatches(entries, 100).Error
}

// Recent - 최근 로그
func (s *ActivityStore) Recent(agentID string, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// BySession - 한 세션의 로그 (오래된 순)
func (s *ActivityStore) BySession(sessionID string, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.Where("session_id = ?", sessionID).
		Order("sim_time ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// ByTimeRange - 시간 범위로 로그 조회
func (s *ActivityStore) ByTimeRange(agentID string, start, end time.Time, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	query := s.db.Where("agent_id = ? AND created_at BETWEEN ? AND ?", agentID, start, end)

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// ByEventType - 이벤트 타입별 로그 조회
func (s *ActivityStore) ByEventType(agentID, eventType string, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.Where("agent_id = ? AND event_type = ?", agentID, eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// Stats - 최근 hours시간 로그 통계
func (s *ActivityStore) Stats(agentID string, hours int) (LogStats, error) {
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var total int64
	if err := s.db.Model(&models.ActivityLog{}).
		Where("agent_id = ? AND created_at >= ?", agentID, since).
		Count(&total).Error; err != nil {
		return LogStats{}, err
	}

	// 이벤트 타입별 카운트
	var eventCounts []struct {
		EventType string
		Count     int64
	}
	if err := s.db.Model(&models.ActivityLog{}).
		Select("event_type, COUNT(*) as count").
		Where("agent_id = ? AND created_at >= ?", agentID, since).
		Group("event_type").
		Scan(&eventCounts).Error; err != nil {
		return LogStats{}, err
	}

	counts := make(map[string]int64, len(eventCounts))
	for _, ec := range eventCounts {
		counts[ec.EventType] = ec.Count
	}

	return LogStats{
		TotalLogs:   total,
		EventCounts: counts,
		TimeRange:   fmt.Sprintf("Last %d hours", hours),
	}, nil
}

// Close - 커넥션 풀 종료
func (s *ActivityStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package services

import (
	"log"
	"sync"
	"time"

	"vacuum-backend/models"
)

// LogSink - 버퍼가 일괄 저장할 대상 (ActivityStore)
type LogSink interface {
	SaveBatch(entries []models.ActivityLog) error
}

// LogBuffer - 활동 로그 버퍼 (비동기 일괄 저장).
// 틱 루프는 Record만 호출하고 DB 쓰기는 기다리지 않는다.
type LogBuffer struct {
	logs      []models.ActivityLog
	mu        sync.Mutex
	sink      LogSink
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간
	stopChan  chan bool
	done      chan struct{}
}

// NewLogBuffer - 로그 버퍼 생성. Start를 호출해야 주기적 플러시가 시작된다.
func NewLogBuffer(sink LogSink, flushSize int, flushInterval time.Duration) *LogBuffer {
	if flushSize <= 0 {
		flushSize = 1
	}
	return &LogBuffer{
		logs:      make([]models.ActivityLog, 0, flushSize*2),
		sink:      sink,
		flushSize: flushSize,
		flushTime: flushInterval,
		stopChan:  make(chan bool),
		done:      make(chan struct{}),
	}
}

// Start - 자동 플러시 고루틴 시작
func (lb *LogBuffer) Start() {
	go lb.autoFlush()
	log.Printf("✅ 로깅 시스템 초기화 완료 (flushSize: %d, flushInterval: %v)", lb.flushSize, lb.flushTime)
}

// autoFlush - 주기적 로그 저장
func (lb *LogBuffer) autoFlush() {
	defer close(lb.done)

	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-lb.stopChan:
			lb.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// Record - 로그 버퍼에 추가. 버퍼가 차면 백그라운드에서 플러시한다.
func (lb *LogBuffer) Record(entry models.ActivityLog) {
	lb.mu.Lock()
	lb.logs = append(lb.logs, entry)
	size := len(lb.logs)
	lb.mu.Unlock()

	if size >= lb.flushSize {
		go lb.Flush()
	}
}

// Pending - 아직 저장되지 않은 로그 수
func (lb *LogBuffer) Pending() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.logs)
}

// Flush - 버퍼의 모든 로그를 저장. 실패한 묶음은 버린다.
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}

	// 로그 복사 및 버퍼 초기화
	logsToSave := make([]models.ActivityLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0]
	lb.mu.Unlock()

	if lb.sink == nil {
		return
	}
	if err := lb.sink.SaveBatch(logsToSave); err != nil {
		log.Printf("❌ 로그 저장 실패: %v", err)
		return
	}
	log.Printf("💾 로그 %d개 저장 완료", len(logsToSave))
}

// Stop - 자동 플러시 종료 (남은 로그 저장 후 반환)
func (lb *LogBuffer) Stop() {
	lb.stopChan <- true
	<-lb.done
	log.Println("🛑 로깅 시스템 종료")
}

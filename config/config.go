package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - 서버 및 시뮬레이션 설정
type Config struct {
	// 서버
	Port           string
	AllowedOrigins string
	AgentID        string

	// 월드 / 그리드
	WorldWidth  float64
	WorldHeight float64
	CellSize    float64
	Heuristic   string // "octile" | "manhattan"

	// 시뮬레이션
	TickRate          int     // 초당 틱 수
	MoveSpeed         float64 // 틱당 이동 거리
	DirtIntervalMin   float64 // 초, 0이면 자동 오염 비활성
	DirtIntervalMax   float64
	InitialDirtyRooms int
	CycleDuration     float64
	ParkAtStation     bool
	RetryBackoffTicks int
	Seed              int64 // 0이면 현재 시각
	BroadcastEvery    int   // 상태 브로드캐스트 간격 (틱)

	// 자원 모델
	MaxBattery          float64
	MaxDirtCapacity     float64
	BatteryDrainMove    float64 // 초당
	BatteryDrainClean   float64 // 초당 (오염도 0 기준)
	ChargeRate          float64 // 초당
	CleaningBaseTime    float64 // 초
	EmptyDuration       float64 // 초
	DirtPerClean        float64
	LowBatteryThreshold float64
	EmptyThreshold      float64 // 먼지통 용량 대비 비율
	ChargeThreshold     float64 // 이 값 미만이면 충전

	// MySQL
	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string

	// 활동 로그 버퍼
	LogFlushSize     int
	LogFlushInterval time.Duration

	// MQTT 텔레메트리
	MQTTBroker      string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicStatus string
}

// Default - 환경을 읽지 않은 기본 설정
func Default() *Config {
	return &Config{
		Port:           "3000",
		AllowedOrigins: "http://localhost:5173, http://localhost:3000",
		AgentID:        "vacuum-001",

		WorldWidth:  1300,
		WorldHeight: 800,
		CellSize:    20,
		Heuristic:   "octile",

		TickRate:          60,
		MoveSpeed:         4,
		DirtIntervalMin:   8,
		DirtIntervalMax:   15,
		InitialDirtyRooms: 3,
		CycleDuration:     120,
		ParkAtStation:     true,
		RetryBackoffTicks: 60,
		BroadcastEvery:    6,

		MaxBattery:          100,
		MaxDirtCapacity:     100,
		BatteryDrainMove:    0.3,
		BatteryDrainClean:   1.5,
		ChargeRate:          20,
		CleaningBaseTime:    2,
		EmptyDuration:       2,
		DirtPerClean:        25,
		LowBatteryThreshold: 25,
		EmptyThreshold:      0.8,
		ChargeThreshold:     90,

		MySQLPort: 3306,

		LogFlushSize:     50,
		LogFlushInterval: 10 * time.Second,

		MQTTClientID:    "vacuum-backend",
		MQTTTopicStatus: "vacuum/{agent_id}/status",
	}
}

// Load - .env 파일과 환경 변수에서 설정 읽기. 없는 키는 Default 값을 쓴다.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env 파일을 찾을 수 없습니다. 환경 변수와 기본값을 사용합니다.")
	}

	d := Default()
	return &Config{
		Port:           getEnv("PORT", d.Port),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", d.AllowedOrigins),
		AgentID:        getEnv("AGENT_ID", d.AgentID),

		WorldWidth:  getEnvFloat("WORLD_WIDTH", d.WorldWidth),
		WorldHeight: getEnvFloat("WORLD_HEIGHT", d.WorldHeight),
		CellSize:    getEnvFloat("CELL_SIZE", d.CellSize),
		Heuristic:   getEnv("HEURISTIC", d.Heuristic),

		TickRate:          getEnvInt("TICK_RATE", d.TickRate),
		MoveSpeed:         getEnvFloat("MOVE_SPEED", d.MoveSpeed),
		DirtIntervalMin:   getEnvFloat("DIRT_INTERVAL_MIN", d.DirtIntervalMin),
		DirtIntervalMax:   getEnvFloat("DIRT_INTERVAL_MAX", d.DirtIntervalMax),
		InitialDirtyRooms: getEnvInt("INITIAL_DIRTY_ROOMS", d.InitialDirtyRooms),
		CycleDuration:     getEnvFloat("CYCLE_DURATION", d.CycleDuration),
		ParkAtStation:     getEnvBool("PARK_AT_STATION", d.ParkAtStation),
		RetryBackoffTicks: getEnvInt("RETRY_BACKOFF_TICKS", d.RetryBackoffTicks),
		Seed:              int64(getEnvInt("SEED", int(d.Seed))),
		BroadcastEvery:    getEnvInt("BROADCAST_EVERY", d.BroadcastEvery),

		MaxBattery:          getEnvFloat("MAX_BATTERY", d.MaxBattery),
		MaxDirtCapacity:     getEnvFloat("MAX_DIRT_CAPACITY", d.MaxDirtCapacity),
		BatteryDrainMove:    getEnvFloat("BATTERY_DRAIN_MOVE", d.BatteryDrainMove),
		BatteryDrainClean:   getEnvFloat("BATTERY_DRAIN_CLEAN", d.BatteryDrainClean),
		ChargeRate:          getEnvFloat("CHARGE_RATE", d.ChargeRate),
		CleaningBaseTime:    getEnvFloat("CLEANING_BASE_TIME", d.CleaningBaseTime),
		EmptyDuration:       getEnvFloat("EMPTY_DURATION", d.EmptyDuration),
		DirtPerClean:        getEnvFloat("DIRT_PER_CLEAN", d.DirtPerClean),
		LowBatteryThreshold: getEnvFloat("LOW_BATTERY_THRESHOLD", d.LowBatteryThreshold),
		EmptyThreshold:      getEnvFloat("EMPTY_THRESHOLD", d.EmptyThreshold),
		ChargeThreshold:     getEnvFloat("CHARGE_THRESHOLD", d.ChargeThreshold),

		MySQLHost:     getEnv("MYSQL_HOST", d.MySQLHost),
		MySQLPort:     getEnvInt("MYSQL_PORT", d.MySQLPort),
		MySQLUser:     getEnv("MYSQL_USER", d.MySQLUser),
		MySQLPassword: getEnv("MYSQL_PASSWORD", d.MySQLPassword),
		MySQLDatabase: getEnv("MYSQL_DATABASE", d.MySQLDatabase),

		LogFlushSize:     getEnvInt("LOG_FLUSH_SIZE", d.LogFlushSize),
		LogFlushInterval: getEnvDuration("LOG_FLUSH_INTERVAL", d.LogFlushInterval),

		MQTTBroker:      getEnv("MQTT_BROKER", d.MQTTBroker),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", d.MQTTClientID),
		MQTTUsername:    getEnv("MQTT_USERNAME", d.MQTTUsername),
		MQTTPassword:    getEnv("MQTT_PASSWORD", d.MQTTPassword),
		MQTTTopicStatus: getEnv("MQTT_TOPIC_STATUS", d.MQTTTopicStatus),
	}
}

// Validate - 설정 값 검증. 문제를 모두 모아 하나의 에러로 반환한다.
func (c *Config) Validate() error {
	var problems []string

	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		problems = append(problems, "world width and height must be positive")
	}
	if c.CellSize <= 0 {
		problems = append(problems, "cell size must be positive")
	} else if c.CellSize > c.WorldWidth || c.CellSize > c.WorldHeight {
		problems = append(problems, "cell size must not exceed the world size")
	}
	if c.TickRate <= 0 {
		problems = append(problems, "tick rate must be positive")
	}
	if c.MoveSpeed <= 0 {
		problems = append(problems, "move speed must be positive")
	}
	if c.MaxBattery <= 0 || c.MaxDirtCapacity <= 0 {
		problems = append(problems, "max battery and max dirt capacity must be positive")
	}
	if c.LowBatteryThreshold < 0 || c.LowBatteryThreshold > c.MaxBattery {
		problems = append(problems, "low battery threshold must be within [0, max battery]")
	}
	if c.ChargeThreshold < 0 || c.ChargeThreshold > c.MaxBattery {
		problems = append(problems, "charge threshold must be within [0, max battery]")
	}
	if c.LowBatteryThreshold > c.ChargeThreshold {
		problems = append(problems, "low battery threshold must not exceed charge threshold")
	}
	if c.ChargeRate <= 0 {
		problems = append(problems, "charge rate must be positive")
	}
	if c.EmptyThreshold <= 0 || c.EmptyThreshold > 1 {
		problems = append(problems, "empty threshold must be within (0, 1]")
	}
	if c.CleaningBaseTime <= 0 || c.EmptyDuration <= 0 {
		problems = append(problems, "cleaning base time and empty duration must be positive")
	}
	if c.DirtIntervalMin < 0 || c.DirtIntervalMin > c.DirtIntervalMax {
		problems = append(problems, "dirt interval min must be within [0, max]")
	}
	if c.BroadcastEvery <= 0 {
		problems = append(problems, "broadcast interval must be positive")
	}
	if c.LogFlushInterval <= 0 {
		problems = append(problems, "log flush interval must be positive")
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// DatabaseEnabled - MySQL 접속 정보가 모두 있는지
func (c *Config) DatabaseEnabled() bool {
	return c.MySQLHost != "" && c.MySQLUser != "" && c.MySQLPassword != "" && c.MySQLDatabase != ""
}

// MySQLDSN - gorm MySQL 드라이버용 DSN
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

// TelemetryEnabled - MQTT 브로커가 설정되었는지
func (c *Config) TelemetryEnabled() bool {
	return c.MQTTBroker != ""
}

// TickInterval - 한 틱의 실제 시간
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  %s 값을 정수로 읽을 수 없어 기본값을 사용합니다: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("⚠️  %s 값을 실수로 읽을 수 없어 기본값을 사용합니다: %v", key, err)
		return defaultValue
	}
	return floatValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️  %s 값을 bool로 읽을 수 없어 기본값을 사용합니다: %v", key, err)
		return defaultValue
	}
	return boolValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("⚠️  %s 값을 duration으로 읽을 수 없어 기본값을 사용합니다: %v", key, err)
		return defaultValue
	}
	return d
}

package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"vacuum-backend/config"
	"vacuum-backend/handlers"
	"vacuum-backend/services"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ 설정 오류: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("🎲 시드: %d", seed)

	sim := services.NewSimulator(cfg, rand.New(rand.NewSource(seed)))

	// WebSocket 클라이언트 관리자
	manager := handlers.NewClientManager()
	go manager.Start()
	sim.SetBroadcastFunc(manager.BroadcastMessage)

	// MySQL 활동 로그 (선택)
	var querier handlers.LogQuerier
	store, err := services.OpenActivityStore(cfg)
	switch {
	case errors.Is(err, services.ErrDatabaseDisabled):
		log.Println("⚠️  MySQL 설정이 없어 활동 로그를 저장하지 않습니다.")
	case err != nil:
		log.Fatalf("❌ DB 초기화 실패: %v", err)
	default:
		querier = store
		defer store.Close()

		logBuffer := services.NewLogBuffer(store, cfg.LogFlushSize, cfg.LogFlushInterval)
		logBuffer.Start()
		defer logBuffer.Stop() // 종료 시 남은 로그 저장
		sim.SetRecorder(logBuffer)
	}

	// MQTT 텔레메트리 (선택)
	if cfg.TelemetryEnabled() {
		client, err := services.NewMQTTClient(cfg)
		if err != nil {
			log.Printf("⚠️  텔레메트리 비활성: %v", err)
		} else {
			defer client.Disconnect(250)
			publisher := services.NewTelemetryPublisher(client, cfg.MQTTTopicStatus, cfg.AgentID, 64)
			go publisher.Start(ctx)
			sim.SetPublisher(publisher)
		}
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	handlers.NewAPI(sim, querier, manager).RegisterRoutes(app)

	sim.Start()
	defer sim.Stop()

	go func() {
		log.Printf("🚀 서버 시작: http://localhost:%s", cfg.Port)
		log.Printf("📡 WebSocket: ws://localhost:%s/websocket/web", cfg.Port)
		log.Printf("🗺️ 상태 API: GET http://localhost:%s/api/status", cfg.Port)
		log.Printf("💾 로그 API: GET http://localhost:%s/api/logs/*", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("❌ 서버 종료: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("🛑 종료 신호 수신")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("⚠️ 서버 종료 실패: %v", err)
	}
}

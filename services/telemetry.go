package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"vacuum-backend/config"
	"vacuum-backend/models"
)

// MessagePublisher - MQTT 발행에 필요한 최소 인터페이스 (mqtt.Client가 만족)
type MessagePublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// NewMQTTClient - 브로커 연결
func NewMQTTClient(cfg *config.Config) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetUsername(cfg.MQTTUsername)
	opts.SetPassword(cfg.MQTTPassword)
	opts.SetOnConnectHandler(connectHandler)
	opts.SetConnectionLostHandler(connectLostHandler)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT 브로커 연결 실패: %w", token.Error())
	}

	log.Printf("📡 MQTT 브로커 연결: %s", cfg.MQTTBroker)
	return client, nil
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Println("📡 MQTT 연결 수립")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Printf("⚠️ MQTT 연결 끊김: %v", err)
}

// TelemetryPublisher - 상태 스냅샷을 채널로 받아 MQTT로 발행한다.
// Publish는 틱 루프에서 호출되므로 절대 막히지 않는다 (채널이 차면 버림).
type TelemetryPublisher struct {
	client     MessagePublisher
	topic      string
	statusChan chan models.AgentStatus
}

// NewTelemetryPublisher - 토픽 패턴의 {agent_id}를 치환해 발행기 생성
func NewTelemetryPublisher(client MessagePublisher, topicPattern, agentID string, buffer int) *TelemetryPublisher {
	return &TelemetryPublisher{
		client:     client,
		topic:      formatTopic(topicPattern, agentID),
		statusChan: make(chan models.AgentStatus, buffer),
	}
}

// Topic - 발행 토픽
func (p *TelemetryPublisher) Topic() string {
	return p.topic
}

// Publish - 상태 스냅샷을 발행 대기열에 넣는다
func (p *TelemetryPublisher) Publish(status models.AgentStatus) {
	select {
	case p.statusChan <- status:
	default:
		log.Println("⚠️ 텔레메트리 대기열 가득 참, 상태 버림")
	}
}

// Start - ctx가 취소될 때까지 대기열을 발행
func (p *TelemetryPublisher) Start(ctx context.Context) {
	log.Printf("📡 텔레메트리 발행 시작: %s", p.topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 텔레메트리 발행 종료")
			return

		case status := <-p.statusChan:
			if err := p.publishStatus(status); err != nil {
				log.Printf("❌ 텔레메트리 발행 실패: %v", err)
			}
		}
	}
}

func (p *TelemetryPublisher) publishStatus(status models.AgentStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("상태 직렬화 실패: %w", err)
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// formatTopic - {agent_id} 자리표시자 치환
func formatTopic(topicPattern, agentID string) string {
	return strings.ReplaceAll(topicPattern, "{agent_id}", agentID)
}

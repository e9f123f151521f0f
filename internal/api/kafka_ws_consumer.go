package api

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"pizzapoint/server/internal/models"
	"pizzapoint/server/internal/utils"
)

// KafkaWSConsumer читает события новых заказов из Kafka и пересылает
// сводки в WebSocket хаб админ-консоли. Полностью опционален:
// витрина работает и без него.
type KafkaWSConsumer struct {
	topic     string
	groupID   string
	reader    *kafka.Reader
	hub       *Hub
	redisUtil *utils.RedisClient
	ctx       context.Context
	cancel    context.CancelFunc
	processed int64 // Счетчик обработанных событий
	lastLog   int64 // Время последнего лога
}

// NewKafkaWSConsumer создает Kafka Consumer для админ-консоли
func NewKafkaWSConsumer(brokers []string, topic string, hub *Hub, redisUtil *utils.RedisClient) *KafkaWSConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     "admin-ws-group",
		StartOffset: kafka.LastOffset, // Только новые события, история не нужна
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     1 * time.Second,
	})

	return &KafkaWSConsumer{
		topic:     topic,
		groupID:   "admin-ws-group",
		reader:    reader,
		hub:       hub,
		redisUtil: redisUtil,
		ctx:       ctx,
		cancel:    cancel,
		lastLog:   time.Now().Unix(),
	}
}

// Start запускает чтение из Kafka и отправку в WebSocket
func (kc *KafkaWSConsumer) Start() {
	log.Printf("📡 Kafka WS Consumer запущен: topic=%s, groupID=%s", kc.topic, kc.groupID)

	go func() {
		for {
			select {
			case <-kc.ctx.Done():
				return
			default:
				msg, err := kc.reader.ReadMessage(kc.ctx)
				if err != nil {
					if err == context.Canceled {
						return
					}
					log.Printf("⚠️ Kafka WS Consumer ошибка чтения: %v", err)
					time.Sleep(1 * time.Second)
					continue
				}

				var order models.Order
				if err := json.Unmarshal(msg.Value, &order); err != nil {
					// Не логируем каждую ошибку парсинга, чтобы не спамить
					continue
				}

				// Счетчик событий для статистики
				if kc.redisUtil != nil {
					kc.redisUtil.Increment("orders:events:total")
				}

				// Пересылаем событие в консоль
				payload, err := json.Marshal(map[string]interface{}{
					"type":      "order_event",
					"orderId":   order.ID,
					"displayId": order.DisplayID,
					"status":    order.Status,
					"total":     order.Total,
				})
				if err != nil {
					continue
				}
				kc.hub.BroadcastMessage(payload)

				// Логируем только раз в 5 секунд для прогресса
				processed := atomic.AddInt64(&kc.processed, 1)
				now := time.Now().Unix()
				if now-atomic.LoadInt64(&kc.lastLog) >= 5 {
					atomic.StoreInt64(&kc.lastLog, now)
					log.Printf("📊 Kafka WS Consumer: обработано %d событий", processed)
				}
			}
		}
	}()
}

// Stop останавливает Kafka Consumer
func (kc *KafkaWSConsumer) Stop() {
	kc.cancel()
	if kc.reader != nil {
		kc.reader.Close()
	}
	log.Println("🛑 Kafka WS Consumer остановлен")
}

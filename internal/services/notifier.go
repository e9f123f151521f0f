package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"pizzapoint/server/internal/models"
)

// ChimePlayer проигрывает звуковой сигнал о новом заказе
type ChimePlayer interface {
	Play()
}

// HubBroadcaster рассылает сообщение подключенным админ-консолям
type HubBroadcaster interface {
	BroadcastMessage(message []byte)
}

// Dispatcher - диспетчер побочных эффектов нового заказа:
// (a) звуковой сигнал, (b) тост в админ-консоль через WebSocket hub,
// (c) best-effort событие в Kafka для внешних нотификаторов (OS-уведомления).
// Все три опциональны и никогда не блокируют сохранение заказа.
type Dispatcher struct {
	chime       ChimePlayer
	hub         HubBroadcaster
	kafkaWriter *kafka.Writer
}

// NewDispatcher создает диспетчер. Любой коллаборатор может быть nil.
func NewDispatcher(chime ChimePlayer, hub HubBroadcaster, kafkaBrokers, topic string) *Dispatcher {
	d := &Dispatcher{
		chime: chime,
		hub:   hub,
	}
	if kafkaBrokers != "" {
		d.kafkaWriter = &kafka.Writer{
			Addr:         kafka.TCP(ParseBrokers(kafkaBrokers)...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true, // Fire-and-forget
		}
	}
	return d
}

// ParseBrokers разбирает список брокеров Kafka из строки через запятую
func ParseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// orderToast - payload тоста о новом заказе: номер, имя клиента,
// количество позиций и сумма
type orderToast struct {
	Type      string  `json:"type"`
	OrderID   string  `json:"order_id"`
	DisplayID string  `json:"display_id,omitempty"`
	Customer  string  `json:"customer"`
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
	Message   string  `json:"message"`
	Timestamp int64   `json:"timestamp"`
}

// NotifyNewOrder запускает все побочные эффекты нового заказа.
// Не блокирует вызывающего: каждая ветка либо async, либо мгновенная.
func (d *Dispatcher) NotifyNewOrder(order models.Order) {
	// (a) Звуковой сигнал (три восходящих тона)
	if d.chime != nil {
		go d.chime.Play()
	}

	// (b) Тост в админ-консоль
	if d.hub != nil {
		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}
		toast := orderToast{
			Type:      "new_order",
			OrderID:   order.ID,
			DisplayID: order.DisplayID,
			Customer:  order.Customer.Name,
			ItemCount: itemCount,
			Total:     order.Total,
			Message:   fmt.Sprintf("Новый заказ #%s - %s (%d позиций) - ₨%.0f", order.DisplayID, order.Customer.Name, itemCount, order.Total),
			Timestamp: time.Now().Unix(),
		}
		if data, err := json.Marshal(toast); err == nil {
			d.hub.BroadcastMessage(data)
		} else {
			log.Printf("⚠️ Dispatcher: ошибка маршалинга тоста: %v", err)
		}
	}

	// (c) Событие для внешних нотификаторов
	if d.kafkaWriter != nil {
		go func(o models.Order) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			payload, err := json.Marshal(o)
			if err != nil {
				log.Printf("⚠️ Dispatcher: ошибка сериализации заказа %s: %v", o.ID, err)
				return
			}
			err = d.kafkaWriter.WriteMessages(ctx, kafka.Message{
				Key:   []byte(o.ID),
				Value: payload,
			})
			if err != nil {
				log.Printf("⚠️ Dispatcher: не удалось отправить событие заказа %s в Kafka: %v", o.ID, err)
			}
		}(order)
	}
}

// Close закрывает Kafka writer
func (d *Dispatcher) Close() error {
	if d.kafkaWriter != nil {
		return d.kafkaWriter.Close()
	}
	return nil
}

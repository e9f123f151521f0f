// Package notify синтезирует и проигрывает звуковой сигнал о новом заказе
// через системное аудиоустройство.
package notify

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 1
)

// Chime проигрывает трехтоновый восходящий сигнал (C5 -> E5 -> G5).
// PCM генерируется один раз при создании.
type Chime struct {
	ctx *oto.Context
	pcm []byte
	mu  sync.Mutex
}

// NewChime инициализирует аудиоконтекст и синтезирует сигнал.
// Возвращает ошибку, если аудиоустройство недоступно.
func NewChime() (*Chime, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Printf("🔔 Звуковой сигнал инициализирован (rate=%d)", sampleRate)
	return &Chime{ctx: ctx, pcm: synthChime()}, nil
}

// Play проигрывает сигнал. Блокирует до конца проигрывания (~0.5с);
// вызывающие запускают его в отдельной горутине. Повторные вызовы
// сериализуются, чтобы тоны не накладывались.
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	player := c.ctx.NewPlayer(bytes.NewReader(c.pcm))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	if err := player.Close(); err != nil {
		log.Printf("⚠️ Ошибка закрытия аудиоплеера: %v", err)
	}
}

// synthChime генерирует PCM трех восходящих нот: C5, E5, G5
func synthChime() []byte {
	notes := []float64{523.25, 659.25, 783.99}
	noteDuration := 150 * time.Millisecond

	var buf bytes.Buffer
	for _, freq := range notes {
		writeTone(&buf, freq, noteDuration)
	}
	return buf.Bytes()
}

// writeTone пишет синусоидальный тон с экспоненциальным затуханием
func writeTone(buf *bytes.Buffer, freq float64, duration time.Duration) {
	samples := int(float64(sampleRate) * duration.Seconds())
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		// Затухание к концу ноты, чтобы не щелкало на стыках
		envelope := 0.3 * math.Exp(-3*t/duration.Seconds())
		value := int16(envelope * math.Sin(2*math.Pi*freq*t) * math.MaxInt16)
		binary.Write(buf, binary.LittleEndian, value)
	}
}

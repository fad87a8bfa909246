package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fermentation_logger/internal/config"
	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const applyTimeout = 5 * time.Second

// ReadingApplier receives decoded reading updates.
type ReadingApplier interface {
	Apply(ctx context.Context, u models.ReadingUpdate) (models.ReadingState, error)
}

// Subscriber feeds reading updates published on an MQTT topic into the reading cache.
type Subscriber struct {
	client   mqtt.Client
	topic    string
	readings ReadingApplier
	log      *logger.Logger
}

func NewSubscriber(cfg config.MQTTConfig, readings ReadingApplier, log *logger.Logger) *Subscriber {
	if log == nil {
		log = logger.Nop()
	}
	s := &Subscriber{topic: cfg.Topic, readings: readings, log: log}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	// clean sessions drop subscriptions, so subscribe on every (re)connect
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		log.Infow("mqtt_connected", "broker", cfg.Broker, "port", cfg.Port)
		if err := s.subscribe(c); err != nil {
			log.Errorw("mqtt_subscribe_failed", "topic", s.topic, "err", err)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("mqtt_connection_lost", "err", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Run connects to the broker and keeps the subscription until ctx ends.
// The client retries the first connection on its own; only a hard connect error is returned.
func (s *Subscriber) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	token := s.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
	case <-ctx.Done():
	}

	<-ctx.Done()
	s.client.Disconnect(250)
	s.log.Infow("mqtt_disconnected")
	return nil
}

func (s *Subscriber) subscribe(c mqtt.Client) error {
	qos := byte(1) // at least once
	token := c.Subscribe(s.topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", s.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, err)
	}
	s.log.Infow("mqtt_subscribed", "topic", s.topic, "qos", qos)
	return nil
}

// handleMessage decodes one reading document and applies it.
func (s *Subscriber) handleMessage(topic string, payload []byte) {
	s.log.Debugw("mqtt_message_received", "topic", topic, "size", len(payload))

	var u models.ReadingUpdate
	if err := json.Unmarshal(payload, &u); err != nil {
		s.log.Warnw("mqtt_message_invalid", "topic", topic, "err", err, "payload", string(payload))
		return
	}
	if u.Empty() {
		s.log.Warnw("mqtt_message_empty", "topic", topic)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()
	if _, err := s.readings.Apply(ctx, u); err != nil {
		s.log.Errorw("mqtt_apply_failed", "topic", topic, "err", err)
		return
	}
	s.log.Debugw("mqtt_readings_applied", "topic", topic)
}

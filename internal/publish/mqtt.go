package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"solar_simulator/internal/model"
	"solar_simulator/internal/store"
)

// Message is an outgoing MQTT message.
type Message struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// SummaryMessage is the retained JSON document on <prefix>/summary.
type SummaryMessage struct {
	RunID              string       `json:"run_id"`
	CompletedAt        string       `json:"completed_at"`
	Params             model.Params `json:"params"`
	SolarKWh           float64      `json:"solar_kwh"`
	LoadKWh            float64      `json:"load_kwh"`
	GridImportKWh      float64      `json:"grid_import_kwh"`
	GridExportKWh      float64      `json:"grid_export_kwh"`
	SelfSufficiencyPct float64      `json:"self_sufficiency_pct"`
	SelfConsumptionPct float64      `json:"self_consumption_pct"`
}

// Publisher implements session.Listener and publishes run KPIs as retained
// messages. Publishing happens on the goroutine started by Run.
type Publisher struct {
	client Client
	prefix string
	queue  chan Message
}

func NewPublisher(client Client, prefix string) *Publisher {
	return &Publisher{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		queue:  make(chan Message, 64),
	}
}

func (p *Publisher) topic(name string) string {
	return p.prefix + "/" + name
}

// Messages builds the retained messages for run.
func (p *Publisher) Messages(run *store.Run) ([]Message, error) {
	s := run.Summary
	summary := SummaryMessage{
		RunID:              run.ID.String(),
		CompletedAt:        run.CompletedAt.Format(time.RFC3339),
		Params:             run.Params,
		SolarKWh:           s.SolarWh / 1000,
		LoadKWh:            s.LoadWh / 1000,
		GridImportKWh:      s.GridImportWh / 1000,
		GridExportKWh:      s.GridExportWh / 1000,
		SelfSufficiencyPct: s.SelfSufficiency * 100,
		SelfConsumptionPct: s.SelfConsumption * 100,
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}

	msgs := []Message{{Topic: p.topic("summary"), Payload: data, QoS: 1, Retain: true}}
	for _, kv := range []struct {
		name  string
		value float64
	}{
		{"self_sufficiency_pct", summary.SelfSufficiencyPct},
		{"self_consumption_pct", summary.SelfConsumptionPct},
		{"grid_import_kwh", summary.GridImportKWh},
		{"grid_export_kwh", summary.GridExportKWh},
	} {
		msgs = append(msgs, Message{
			Topic:   p.topic(kv.name),
			Payload: []byte(strconv.FormatFloat(kv.value, 'f', 2, 64)),
			QoS:     1,
			Retain:  true,
		})
	}
	return msgs, nil
}

func (p *Publisher) OnParams(model.Params) {}

// OnRun queues the run's messages. Messages are dropped when the queue is
// full.
func (p *Publisher) OnRun(run *store.Run) {
	msgs, err := p.Messages(run)
	if err != nil {
		log.Printf("Error building MQTT messages: %v", err)
		return
	}
	for _, m := range msgs {
		select {
		case p.queue <- m:
		default:
			log.Printf("MQTT queue full, dropping %s", m.Topic)
		}
	}
}

// Run publishes queued messages until ctx is done.
func (p *Publisher) Run(ctx context.Context) {
	log.Println("MQTT publisher started")

	for {
		select {
		case msg := <-p.queue:
			token := p.client.Publish(msg.Topic, msg.QoS, msg.Retain, msg.Payload)
			token.Wait()
			if token.Error() != nil {
				log.Printf("Failed to publish to %s: %v", msg.Topic, token.Error())
			}

		case <-ctx.Done():
			log.Println("MQTT publisher stopped")
			return
		}
	}
}

// Options describe the broker connection.
type Options struct {
	Broker   string
	Username string
	Password string
}

// ClientOptions builds paho options with auto reconnect.
func ClientOptions(o Options) *mqtt.ClientOptions {
	broker := brokerURL(o.Broker)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("solarsim-" + uuid.NewString()[:8])
	opts.SetUsername(o.Username)
	opts.SetPassword(o.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Printf("Connected to MQTT broker at %s", broker)
	})
	return opts
}

// Connect dials the broker. With connect retry enabled the call returns once
// the first attempt finishes; later attempts continue in the background.
func Connect(o Options) (mqtt.Client, error) {
	client := mqtt.NewClient(ClientOptions(o))
	log.Printf("Connecting to MQTT broker at %s...", o.Broker)
	token := client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return client, nil
}

// brokerURL adds the tcp scheme and the default MQTT port when missing.
func brokerURL(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "tcp://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if u.Port() == "" {
		port := "1883"
		if u.Scheme == "ssl" || u.Scheme == "tls" || u.Scheme == "mqtts" {
			port = "8883"
		}
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}
	return u.String()
}

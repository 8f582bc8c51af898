// Package mqtt connects the planner to a depot message broker. Job-card
// updates published by the maintenance system trigger a re-plan, and the
// resulting plan is published back for downstream consumers.
package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kochimetro/induction/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// JobCardTopic carries job-card table snapshots as JSON arrays.
	JobCardTopic string `json:"job_card_topic"`
	// PlanTopic receives the published plan after each re-run.
	PlanTopic string `json:"plan_topic"`
	QoS       byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("induction-%s", uuid.NewString()[:8])
	}
	if c.JobCardTopic == "" {
		c.JobCardTopic = "depot/job-cards"
	}
	if c.PlanTopic == "" {
		c.PlanTopic = "depot/plan"
	}
}

// pahoClient is the subset of the Paho API the planner uses. Tests swap in a
// fake.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Client wraps an Eclipse Paho connection.
type Client struct {
	cli pahoClient
	cfg Config
	log logger.Logger
}

// NewClient connects to the broker described by cfg.
func NewClient(cfg Config) (*Client, error) {
	log := logger.New("mqtt-client")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Client{cli: c, cfg: cfg, log: log}, nil
}

// Subscribe registers handler for messages on topic.
func (c *Client) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	token := c.cli.Subscribe(topic, c.cfg.QoS, func(_ paho.Client, m paho.Message) {
		handler(m.Topic(), m.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Publish sends payload to topic.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.cli.Publish(topic, c.cfg.QoS, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (c *Client) Close() {
	if c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
}

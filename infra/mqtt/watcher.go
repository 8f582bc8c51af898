package mqtt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/plan"
	"github.com/kochimetro/induction/infra/logger"
	"github.com/kochimetro/induction/pkg/export"
)

// publisher abstracts the broker connection for the watcher.
type publisher interface {
	Subscribe(topic string, handler func(topic string, payload []byte)) error
	Publish(topic string, payload []byte) error
}

// jobCardMessage is the wire shape of one job card in a snapshot message.
type jobCardMessage struct {
	TrainID   string `json:"train_id"`
	JobCardID string `json:"job_card_id"`
	Severity  string `json:"severity"`
}

// Watcher re-runs the planning pipeline whenever the maintenance system
// publishes a fresh job-card snapshot. The roster and cleaning slots are
// fixed for the watcher's lifetime; only the job cards change between runs.
// Each run invokes the same pure pipeline, so the watcher carries no
// planning state of its own.
type Watcher struct {
	planner *plan.Planner
	base    plan.Request
	conn    publisher
	topics  Config
	log     logger.Logger
}

// NewWatcher builds a watcher over the given base request.
func NewWatcher(planner *plan.Planner, base plan.Request, conn publisher, cfg Config, log logger.Logger) *Watcher {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Watcher{planner: planner, base: base, conn: conn, topics: cfg, log: log}
}

// Start subscribes to the job-card topic. Handling happens on the broker
// client's callback goroutine.
func (w *Watcher) Start() error {
	if err := w.conn.Subscribe(w.topics.JobCardTopic, w.onJobCards); err != nil {
		return fmt.Errorf("subscribe %s: %w", w.topics.JobCardTopic, err)
	}
	w.log.Infof("watching %s for job-card updates", w.topics.JobCardTopic)
	return nil
}

func (w *Watcher) onJobCards(_ string, payload []byte) {
	var msgs []jobCardMessage
	if err := json.Unmarshal(payload, &msgs); err != nil {
		w.log.Errorf("bad job-card payload: %v", err)
		return
	}
	cards := make([]model.JobCard, 0, len(msgs))
	for _, m := range msgs {
		cards = append(cards, model.JobCard{TrainID: m.TrainID, JobCardID: m.JobCardID, Severity: m.Severity})
	}

	req := w.base
	req.JobCards = cards
	result, err := w.planner.Run(req)
	if err != nil {
		w.log.Errorf("replan failed: %v", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, result); err != nil {
		w.log.Errorf("encode plan: %v", err)
		return
	}
	if err := w.conn.Publish(w.topics.PlanTopic, buf.Bytes()); err != nil {
		w.log.Errorf("publish plan: %v", err)
		return
	}
	w.log.Infof("published plan %s to %s after job-card update (%d cards)",
		result.RunID, w.topics.PlanTopic, len(cards))
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

const DefaultJourneyTopic = "journey-history"

// JourneyEvent is the record written for every committed journey snapshot.
type JourneyEvent struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"user_id"`
	MilestoneID    string                  `json:"milestone_id"`
	MilestoneTitle string                  `json:"milestone_title"`
	StageID        string                  `json:"stage_id"`
	Action         domain.JourneyAction    `json:"action"`
	Timestamp      time.Time               `json:"timestamp"`
	StageProgress  domain.StageProgressMap `json:"stage_progress"`
}

func EventFromSnapshot(s *domain.JourneySnapshot) JourneyEvent {
	return JourneyEvent{
		ID:             s.ID.String(),
		UserID:         s.UserID.String(),
		MilestoneID:    s.MilestoneID,
		MilestoneTitle: s.MilestoneTitle,
		StageID:        s.StageID,
		Action:         s.Action,
		Timestamp:      s.Timestamp,
		StageProgress:  s.Progress(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Config struct {
	Brokers []string
	Topic   string
}

// JourneyPublisher mirrors journey history onto a topic keyed by user id, so
// one user's events land on one partition in commit order.
type JourneyPublisher struct {
	log    *logger.Logger
	writer messageWriter
	topic  string
}

func NewJourneyPublisher(log *logger.Logger, cfg Config) (*JourneyPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("missing KAFKA_BROKERS")
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = DefaultJourneyTopic
	}
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newJourneyPublisher(log, w, topic), nil
}

func newJourneyPublisher(log *logger.Logger, w messageWriter, topic string) *JourneyPublisher {
	return &JourneyPublisher{
		log:    logger.OrNop(log).With("service", "JourneyPublisher", "topic", topic),
		writer: w,
		topic:  topic,
	}
}

func (p *JourneyPublisher) Publish(ctx context.Context, s *domain.JourneySnapshot) error {
	if p == nil || s == nil {
		return nil
	}
	raw, err := json.Marshal(EventFromSnapshot(s))
	if err != nil {
		return err
	}
	msg := kafkago.Message{
		Key:   []byte(s.UserID.String()),
		Value: raw,
		Time:  s.Timestamp,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(s.Action)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish journey %s: %w", s.ID, err)
	}
	return nil
}

func (p *JourneyPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

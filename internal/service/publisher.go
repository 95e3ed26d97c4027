package service

import (
	"context"
	"encoding/json"
	"energylabel/internal/model"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher announces submitted assessments to other systems
type Publisher interface {
	Publish(ctx context.Context, a *model.Assessment) error
	Close() error
}

// AssessmentEvent is the message published for every submission
type AssessmentEvent struct {
	ID              string    `json:"id"`
	QuestionnaireID string    `json:"questionnaireId"`
	SessionID       string    `json:"sessionId"`
	Label           string    `json:"label"`
	Score           int       `json:"score"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

func newAssessmentEvent(a *model.Assessment) AssessmentEvent {
	return AssessmentEvent{
		ID:              a.ID,
		QuestionnaireID: a.QuestionnaireID,
		SessionID:       a.SessionID,
		Label:           a.Result.Label,
		Score:           a.Result.Score,
		SubmittedAt:     a.SubmittedAt,
	}
}

// KafkaPublisher writes assessment events to a Kafka topic, keyed by
// questionnaire so one questionnaire's events stay ordered
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		log: log.With("component", "kafka-publisher", "topic", topic),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a *model.Assessment) error {
	data, err := json.Marshal(newAssessmentEvent(a))
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(a.QuestionnaireID),
		Value: data,
		Time:  a.SubmittedAt,
	}); err != nil {
		return err
	}
	p.log.Debug("assessment published", "id", a.ID, "label", a.Result.Label)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event; used when no brokers are configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *model.Assessment) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }

package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/requestcontext"
)

// DefaultTopic carries case submissions to the chain relay.
const DefaultTopic = "casebook.case-submissions"

// SubmissionPublisher hands a built payload to whatever writes it on chain.
//
//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks SubmissionPublisher
type SubmissionPublisher interface {
	Publish(ctx context.Context, payload Payload) error
}

// Publisher produces payloads as JSON records keyed by rule ID, so all
// submissions for one rule land on the same partition.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type PublisherOption func(*Publisher)

func WithTopic(topic string) PublisherOption {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher connects to brokers. Close releases the client.
func NewPublisher(brokers []string, opts ...PublisherOption) (*Publisher, error) {
	p := &Publisher{
		topic:  DefaultTopic,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(p.topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	p.client = client
	return p, nil
}

// EnsureTopic creates the submission topic if it does not exist.
func (p *Publisher) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resps, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resps {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, payload Payload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	var key []byte
	if len(payload.Rules) > 0 {
		key = []byte(payload.Rules[0].RuleID)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   key,
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "request_id", Value: []byte(requestcontext.RequestID(ctx))},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.logger.ErrorContext(ctx, "case submission publish failed",
			"topic", p.topic,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "submission relay unavailable")
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Close()
}

// NopPublisher accepts and discards payloads. It is used when no brokers are
// configured so previews and validation still work.
type NopPublisher struct {
	Logger *slog.Logger
}

func (n NopPublisher) Publish(ctx context.Context, payload Payload) error {
	if n.Logger != nil {
		n.Logger.InfoContext(ctx, "case submission discarded, no relay configured",
			"name", payload.Name,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return nil
}

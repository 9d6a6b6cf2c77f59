//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// Redpanda is a running Kafka-compatible broker.
type Redpanda struct {
	Brokers []string
}

// StartRedpanda starts a single-node Redpanda broker and terminates it when
// t finishes.
func StartRedpanda(t *testing.T) *Redpanda {
	t.Helper()
	ctx := context.Background()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v23.3.3",
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		t.Fatalf("start redpanda container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		t.Fatalf("redpanda seed broker: %v", err)
	}
	return &Redpanda{Brokers: []string{broker}}
}

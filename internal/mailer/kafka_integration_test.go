//go:build integration

package mailer_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"hireflow/internal/mailer"
	"hireflow/internal/platform/config"
	platformkafka "hireflow/internal/platform/kafka"
	"hireflow/pkg/testutil/containers"
)

func TestKafkaMailer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	container := containers.NewRedpandaContainer(t)
	ctx := context.Background()
	const topic = "hireflow.outbound-messages"

	producer, err := platformkafka.NewClient(config.KafkaConfig{
		Brokers:      []string{container.Broker},
		MessageTopic: topic,
	})
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, platformkafka.EnsureTopics(ctx, producer, topic))

	queue := mailer.NewKafka(producer, topic)
	msg := mailer.Message{
		To:       "director@acme.example",
		Subject:  "Hiring approval requested: Marina Duarte",
		HTMLBody: "<p>decide</p>",
		QueuedAt: time.Now().UTC().Round(time.Millisecond),
	}
	require.NoError(t, queue.Enqueue(ctx, msg))

	consumer := container.NewClient(t,
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, msg.To, string(records[0].Key))

	var got mailer.Message
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, msg.Subject, got.Subject)
	require.Equal(t, msg.HTMLBody, got.HTMLBody)
}

package mykafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/refurb_shop/pkg/logging"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.Publish(context.Background(), "order_events", "42", map[string]any{"type": "order_created", "order_id": 42})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "order_events", msg.Topic)
	assert.Equal(t, "42", string(msg.Key))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "order_created", body["type"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_Errors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Producer{writer: w}

	err := p.Publish(context.Background(), "cart_events", "s", map[string]any{"ok": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")

	err = p.Publish(context.Background(), "cart_events", "s", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), "t", "k", nil))
}

func TestNewProducer_AsyncWithCompletionLog(t *testing.T) {
	var buf bytes.Buffer
	p := NewProducer([]string{"localhost:9092"}, logging.NewWithWriter(&buf, "info"))

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, w.Async)
	require.NotNil(t, w.Completion)

	w.Completion([]kafka.Message{{Topic: "cart_events"}}, nil)
	assert.Zero(t, buf.Len())

	w.Completion([]kafka.Message{{Topic: "cart_events"}}, errors.New("dial tcp: refused"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "event_delivery_error", rec["msg"])
	assert.Equal(t, "cart_events", rec["topic"])

	require.NoError(t, p.Close())
}

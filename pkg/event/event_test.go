package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFire_CallsListenersInOrder(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var got []string
	Listen(OrderCreated, func(p interface{}) { got = append(got, "a:"+p.(string)) })
	Listen(OrderCreated, func(p interface{}) { got = append(got, "b:"+p.(string)) })
	Listen(CustomerRegistered, func(interface{}) { got = append(got, "other") })

	Fire(OrderCreated, "7")
	assert.Equal(t, []string{"a:7", "b:7"}, got)
	assert.True(t, HasListeners(OrderCreated))
	assert.False(t, HasListeners("nothing"))
}

func TestMessage_EncodesEnvelope(t *testing.T) {
	env := NewEnvelope(OrderCreated, map[string]int{"order_id": 3})
	msg, err := Message(env.ID, env)
	require.NoError(t, err)

	assert.Equal(t, env.ID, string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, OrderCreated, string(msg.Headers[0].Value))

	var decoded struct {
		ID      string         `json:"id"`
		Name    string         `json:"name"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, env.ID, decoded.ID)
	assert.Equal(t, OrderCreated, decoded.Name)
	assert.Equal(t, 3, decoded.Payload["order_id"])
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestForward_PublishesFiredEvents(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	w := &fakeWriter{}
	p := newPublisher(w, "test")
	p.Forward(CustomerRegistered)

	Fire(CustomerRegistered, map[string]uint{"customer_id": 1})
	Fire(OrderCreated, nil)
	require.NoError(t, p.Close())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, CustomerRegistered, string(w.msgs[0].Headers[0].Value))
}

func TestPublish_WrapsWriterError(t *testing.T) {
	p := newPublisher(&fakeWriter{err: errors.New("no leader")}, "test")
	t.Cleanup(func() { _ = p.Close() })
	err := p.Publish(context.Background(), OrderCreated, nil)
	assert.ErrorContains(t, err, "no leader")
	assert.ErrorContains(t, err, "test")
}

func TestNilPublisher(t *testing.T) {
	var p *KafkaPublisher
	p.Forward(OrderCreated)
	assert.NoError(t, p.Close())
	assert.Nil(t, ConnectKafka())
}

package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := DayGetPayload{Date: "2025-06-21"}

	msg, err := NewEnvelope(TypeDayGet, payload)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeDayGet, env.Type)

	var parsed DayGetPayload
	err = json.Unmarshal(env.Payload, &parsed)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-21", parsed.Date)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeSimRecompute, nil)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeSimRecompute, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c := &Client{
		hub:  hub,
		send: make(chan []byte, 16),
	}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())

	// Second unregister is a no-op
	hub.Unregister(c)
	assert.False(t, hub.SendTo(c, []byte("x")))
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(slow)

	hub.Broadcast([]byte("a"))
	hub.Broadcast([]byte("b"))

	assert.Equal(t, 1, hub.Dropped())
	assert.Equal(t, []byte("a"), <-slow.send)
}

func TestHub_SendTo(t *testing.T) {
	hub := NewHub()
	c1 := &Client{hub: hub, send: make(chan []byte, 4)}
	c2 := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register(c1)
	hub.Register(c2)

	assert.True(t, hub.SendTo(c1, []byte("only-c1")))
	assert.Equal(t, []byte("only-c1"), <-c1.send)
	assert.Empty(t, c2.send)
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub()
	c := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register(c)

	hub.CloseAll()
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-c.send
	assert.False(t, open)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "params:update", TypeParamsUpdate)
	assert.Equal(t, "sim:recompute", TypeSimRecompute)
	assert.Equal(t, "day:get", TypeDayGet)
	assert.Equal(t, "frame:get", TypeFrameGet)
	assert.Equal(t, "params:state", TypeParamsState)
	assert.Equal(t, "run:summary", TypeRunSummary)
	assert.Equal(t, "day:data", TypeDayData)
	assert.Equal(t, "frame", TypeFrame)
	assert.Equal(t, "error", TypeError)
}

package ws

import (
	"log"

	"solar_simulator/internal/model"
	"solar_simulator/internal/store"
)

// Bridge implements session.Listener and broadcasts events to the WebSocket hub.
type Bridge struct {
	hub *Hub
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub}
}

func (b *Bridge) OnParams(p model.Params) {
	msg, err := NewEnvelope(TypeParamsState, ParamsStatePayload{Params: p})
	if err != nil {
		log.Printf("Error marshaling params state: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}

func (b *Bridge) OnRun(run *store.Run) {
	msg, err := NewEnvelope(TypeRunSummary, SummaryFromRun(run))
	if err != nil {
		log.Printf("Error marshaling run summary: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}

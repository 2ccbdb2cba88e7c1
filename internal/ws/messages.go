package ws

import (
	"encoding/json"
	"time"

	"solar_simulator/internal/config"
	"solar_simulator/internal/model"
	"solar_simulator/internal/simulator"
	"solar_simulator/internal/store"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeParamsUpdate = "params:update"
	TypeSimRecompute = "sim:recompute"
	TypeDayGet       = "day:get"
	TypeFrameGet     = "frame:get"

	// Server -> Client
	TypeParamsState  = "params:state"
	TypeParamsIssues = "params:issues"
	TypeRunSummary   = "run:summary"
	TypeDayData      = "day:data"
	TypeFrame        = "frame"
	TypeError        = "error"
)

// Client -> Server messages

// ParamsUpdatePayload is a partial flat parameter record.
type ParamsUpdatePayload map[string]any

type DayGetPayload struct {
	Date string `json:"date"`
}

type FrameGetPayload struct {
	Timestamp string `json:"timestamp"`
}

// Server -> Client messages

type ParamsStatePayload struct {
	Params model.Params `json:"params"`
}

type ParamsIssuesPayload struct {
	Issues []config.Issue `json:"issues"`
}

type TimeRangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RunSummaryPayload struct {
	RunID               string         `json:"run_id"`
	CompletedAt         string         `json:"completed_at"`
	DurationMs          float64        `json:"duration_ms"`
	Params              model.Params   `json:"params"`
	TimeRange           TimeRangeInfo  `json:"time_range"`
	Steps               int            `json:"steps"`
	SolarKWh            float64        `json:"solar_kwh"`
	LoadKWh             float64        `json:"load_kwh"`
	HeatPumpKWh         float64        `json:"heat_pump_kwh"`
	EVKWh               float64        `json:"ev_kwh"`
	GridImportKWh       float64        `json:"grid_import_kwh"`
	GridExportKWh       float64        `json:"grid_export_kwh"`
	BatteryChargeKWh    float64        `json:"battery_charge_kwh"`
	BatteryDischargeKWh float64        `json:"battery_discharge_kwh"`
	SelfSufficiencyPct  float64        `json:"self_sufficiency_pct"`
	SelfConsumptionPct  float64        `json:"self_consumption_pct"`
	Monthly             []MonthPayload `json:"monthly"`
}

type MonthPayload struct {
	Month         int     `json:"month"`
	Name          string  `json:"name"`
	SolarKWh      float64 `json:"solar_kwh"`
	LoadKWh       float64 `json:"load_kwh"`
	NormalKWh     float64 `json:"normal_kwh"`
	HeatPumpKWh   float64 `json:"heat_pump_kwh"`
	EVKWh         float64 `json:"ev_kwh"`
	GridImportKWh float64 `json:"grid_import_kwh"`
	GridExportKWh float64 `json:"grid_export_kwh"`
}

type DayDataPayload struct {
	Date    string               `json:"date"`
	Steps   []model.StepResult   `json:"steps"`
	Summary simulator.DaySummary `json:"summary"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func SummaryFromRun(run *store.Run) RunSummaryPayload {
	s := run.Summary
	p := RunSummaryPayload{
		RunID:               run.ID.String(),
		CompletedAt:         run.CompletedAt.Format(time.RFC3339),
		DurationMs:          float64(run.Duration) / float64(time.Millisecond),
		Params:              run.Params,
		Steps:               s.Steps,
		SolarKWh:            s.SolarWh / 1000,
		LoadKWh:             s.LoadWh / 1000,
		HeatPumpKWh:         s.HeatPumpWh / 1000,
		EVKWh:               s.EVWh / 1000,
		GridImportKWh:       s.GridImportWh / 1000,
		GridExportKWh:       s.GridExportWh / 1000,
		BatteryChargeKWh:    s.BatteryChargeWh / 1000,
		BatteryDischargeKWh: s.BatteryDischargeWh / 1000,
		SelfSufficiencyPct:  s.SelfSufficiency * 100,
		SelfConsumptionPct:  s.SelfConsumption * 100,
		Monthly:             MonthlyFromBuckets(run.Monthly),
	}
	if tr, ok := run.TimeRange(); ok {
		p.TimeRange = TimeRangeInfo{Start: tr.Start.String(), End: tr.End.String()}
	}
	return p
}

func MonthlyFromBuckets(buckets [12]simulator.MonthBucket) []MonthPayload {
	out := make([]MonthPayload, len(buckets))
	for i, b := range buckets {
		out[i] = MonthPayload{
			Month:         int(b.Month),
			Name:          b.Month.String()[:3],
			SolarKWh:      b.SolarWh / 1000,
			LoadKWh:       b.LoadWh / 1000,
			NormalKWh:     b.NormalLoadWh / 1000,
			HeatPumpKWh:   b.HeatPumpWh / 1000,
			EVKWh:         b.EVWh / 1000,
			GridImportKWh: b.GridImportWh / 1000,
			GridExportKWh: b.GridExportWh / 1000,
		}
	}
	return out
}

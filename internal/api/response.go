package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"solar_simulator/internal/config"
	"solar_simulator/internal/model"
	"solar_simulator/internal/session"
	"solar_simulator/internal/simulator"
	"solar_simulator/internal/store"
)

// Error codes
const (
	CodeInternal       = "INTERNAL_ERROR"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidProfile = "INVALID_PROFILE"
	CodeNoRun          = "NO_RUN"
	CodeNotFound       = "NOT_FOUND"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ParamsResponse struct {
	Params model.Params       `json:"params"`
	Record map[string]float64 `json:"record"`
}

type ParamsUpdateResponse struct {
	Params model.Params   `json:"params"`
	Issues []config.Issue `json:"issues"`
	Run    *RunResponse   `json:"run,omitempty"`
}

type RunResponse struct {
	ID          string            `json:"id"`
	CompletedAt time.Time         `json:"completed_at"`
	DurationMs  float64           `json:"duration_ms"`
	Params      model.Params      `json:"params"`
	TimeRange   *model.TimeRange  `json:"time_range,omitempty"`
	Summary     simulator.Summary `json:"summary"`
}

type ResultsResponse struct {
	RunID string             `json:"run_id"`
	Steps []model.StepResult `json:"steps"`
}

type DayResponse struct {
	RunID   string               `json:"run_id"`
	Date    string               `json:"date"`
	Steps   []model.StepResult   `json:"steps"`
	Summary simulator.DaySummary `json:"summary"`
}

type MonthlyResponse struct {
	RunID  string                    `json:"run_id"`
	Months [12]simulator.MonthBucket `json:"months"`
}

type KPIResponse struct {
	RunID           string  `json:"run_id"`
	SelfSufficiency float64 `json:"self_sufficiency"`
	SelfConsumption float64 `json:"self_consumption"`
	GridImportWh    float64 `json:"grid_import_wh"`
	GridExportWh    float64 `json:"grid_export_wh"`
	NetGridWh       float64 `json:"net_grid_wh"`
}

func newRunResponse(run *store.Run) *RunResponse {
	r := &RunResponse{
		ID:          run.ID.String(),
		CompletedAt: run.CompletedAt,
		DurationMs:  float64(run.Duration) / float64(time.Millisecond),
		Params:      run.Params,
		Summary:     run.Summary,
	}
	if tr, ok := run.TimeRange(); ok {
		r.TimeRange = &tr
	}
	return r
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// abortWithRunError maps session errors onto HTTP status codes.
func abortWithRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoRun):
		abortWithError(c, http.StatusNotFound, CodeNoRun, err.Error())
	case errors.Is(err, model.ErrInvalidProfile):
		abortWithError(c, http.StatusConflict, CodeInvalidProfile, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}

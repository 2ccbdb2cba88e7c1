package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar_simulator/internal/config"
	"solar_simulator/internal/model"
	"solar_simulator/internal/report"
	"solar_simulator/internal/session"
)

// Handler serves the REST API for one session.
type Handler struct {
	sess *session.Session
}

func NewHandler(sess *session.Session) *Handler {
	return &Handler{sess: sess}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetParams handles GET /api/v1/params
func (h *Handler) GetParams(c *gin.Context) {
	p := h.sess.Params()
	c.JSON(http.StatusOK, ParamsResponse{Params: p, Record: config.ToRecord(p)})
}

// UpdateParams handles PUT /api/v1/params with a partial flat record.
func (h *Handler) UpdateParams(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	run, issues, err := h.sess.UpdateParams(raw)
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	if issues == nil {
		issues = []config.Issue{}
	}
	c.JSON(http.StatusOK, ParamsUpdateResponse{
		Params: run.Params,
		Issues: issues,
		Run:    newRunResponse(run),
	})
}

// Recompute handles POST /api/v1/recompute
func (h *Handler) Recompute(c *gin.Context) {
	run, err := h.sess.Recompute()
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunResponse(run))
}

// GetRun handles GET /api/v1/run
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.sess.CurrentRun()
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunResponse(run))
}

// GetResults handles GET /api/v1/results[?format=csv]
func (h *Handler) GetResults(c *gin.Context) {
	run, err := h.sess.CurrentRun()
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	if wantsCSV(c) {
		var buf bytes.Buffer
		if err := report.WriteResultsCSV(&buf, run.Results); err != nil {
			log.Printf("Error writing results CSV: %v", err)
			abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error())
			return
		}
		sendCSV(c, fmt.Sprintf("results-%s.csv", run.ID), buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, ResultsResponse{RunID: run.ID.String(), Steps: run.Results})
}

// GetDay handles GET /api/v1/days/:date
func (h *Handler) GetDay(c *gin.Context) {
	day, err := model.ParseDate(c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	run, err := h.sess.CurrentRun()
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	steps, summary, ok := run.Day(day)
	if !ok {
		abortWithError(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("no steps for %s", day.Date()))
		return
	}
	c.JSON(http.StatusOK, DayResponse{
		RunID:   run.ID.String(),
		Date:    day.Date(),
		Steps:   steps,
		Summary: summary,
	})
}

// GetMonthly handles GET /api/v1/monthly[?format=csv]
func (h *Handler) GetMonthly(c *gin.Context) {
	run, err := h.sess.CurrentRun()
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	if wantsCSV(c) {
		var buf bytes.Buffer
		if err := report.WriteMonthlyCSV(&buf, run.Monthly); err != nil {
			abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error())
			return
		}
		sendCSV(c, fmt.Sprintf("monthly-%s.csv", run.ID), buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, MonthlyResponse{RunID: run.ID.String(), Months: run.Monthly})
}

// GetKPIs handles GET /api/v1/kpis
func (h *Handler) GetKPIs(c *gin.Context) {
	run, err := h.sess.CurrentRun()
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	s := run.Summary
	c.JSON(http.StatusOK, KPIResponse{
		RunID:           run.ID.String(),
		SelfSufficiency: s.SelfSufficiency,
		SelfConsumption: s.SelfConsumption,
		GridImportWh:    s.GridImportWh,
		GridExportWh:    s.GridExportWh,
		NetGridWh:       s.NetGridWh(),
	})
}

// GetFrame handles GET /api/v1/frame?ts=YYYY-MM-DD HH:MM
func (h *Handler) GetFrame(c *gin.Context) {
	raw := c.Query("ts")
	if raw == "" {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, "missing ts query parameter")
		return
	}
	ts, err := model.ParseTimestamp(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	run, err := h.sess.CurrentRun()
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	frame, ok := run.FrameAt(ts)
	if !ok {
		abortWithError(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("no step at or before %s", ts))
		return
	}
	c.JSON(http.StatusOK, frame)
}

func wantsCSV(c *gin.Context) bool {
	return c.Query("format") == "csv"
}

func sendCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

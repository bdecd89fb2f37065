package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/and3rn3t/net-traffic-sub002/internal/detect"
	"github.com/and3rn3t/net-traffic-sub002/internal/model"
	"github.com/and3rn3t/net-traffic-sub002/internal/present"
	"github.com/and3rn3t/net-traffic-sub002/internal/store"
)

// HTTPAPI provides HTTP endpoints for the anomaly engine service.
type HTTPAPI struct {
	engine   *detect.Engine
	store    *store.MemoryStore
	natsConn *nats.Conn
	logger   *slog.Logger
}

// NewHTTPAPI creates a new HTTP API instance.
func NewHTTPAPI(engine *detect.Engine, findingStore *store.MemoryStore, natsConn *nats.Conn, logger *slog.Logger) *HTTPAPI {
	return &HTTPAPI{
		engine:   engine,
		store:    findingStore,
		natsConn: natsConn,
		logger:   logger,
	}
}

// SetupRoutes configures HTTP routes.
func (api *HTTPAPI) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/detect", api.handleDetect)
	mux.HandleFunc("/findings", api.handleFindings)
	mux.HandleFunc("/findings/overview", api.handleOverview)
	mux.HandleFunc("/findings/reset", api.handleResetFindings)
	mux.HandleFunc("/thresholds", api.handleThresholds)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", api.handleHealth)
	mux.HandleFunc("/readyz", api.handleReady)
}

// handleDetect handles POST /detect: run one detection pass over the posted
// flow/device snapshot and return the ranked report.
func (api *HTTPAPI) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var snap model.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		api.logger.Error("Failed to decode detect request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report := api.engine.Analyze(snap)
	api.store.SetLastReport(report, snap.Devices)
	for _, finding := range report.Findings {
		api.store.AddFinding(finding)
	}

	api.writeJSON(w, http.StatusOK, report)
}

// handleFindings handles GET /findings with optional severity, type,
// device_id, and limit query parameters.
func (api *HTTPAPI) handleFindings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := store.Filter{
		Severity: model.Severity(r.URL.Query().Get("severity")),
		Type:     model.AnomalyType(r.URL.Query().Get("type")),
		DeviceID: r.URL.Query().Get("device_id"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	findings := api.store.GetFindings(filter)
	if findings == nil {
		findings = []model.Finding{}
	}

	api.writeJSON(w, http.StatusOK, map[string]interface{}{
		"findings": findings,
		"count":    len(findings),
	})
}

// handleOverview handles GET /findings/overview: the latest report formatted
// as display rows for the dashboard.
func (api *HTTPAPI) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, devices, ok := api.store.LastReport()
	if !ok {
		api.writeJSON(w, http.StatusOK, map[string]interface{}{
			"rows":          []present.Row{},
			"overall_score": 0,
		})
		return
	}

	rows := present.Rows(report, devices, api.engine.Thresholds().DisplayDeviceCap)
	api.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":          rows,
		"overall_score": report.OverallScore,
		"generated_at":  report.GeneratedAt,
	})
}

// handleResetFindings handles POST /findings/reset.
func (api *HTTPAPI) handleResetFindings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	api.store.Clear()
	api.logger.Info("Findings store reset")
	api.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleThresholds handles GET /thresholds: the effective detection
// thresholds.
func (api *HTTPAPI) handleThresholds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	api.writeJSON(w, http.StatusOK, api.engine.Thresholds())
}

// handleHealth handles GET /healthz.
func (api *HTTPAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"store":  api.store.Stats(),
	})
}

// handleReady handles GET /readyz. The service is ready when NATS is
// connected; without a NATS connection it still serves HTTP-only detection.
func (api *HTTPAPI) handleReady(w http.ResponseWriter, r *http.Request) {
	if api.natsConn != nil && !api.natsConn.IsConnected() {
		api.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "nats disconnected"})
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (api *HTTPAPI) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		api.logger.Error("Failed to encode response", "error", err)
	}
}

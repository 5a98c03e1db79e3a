package handler

import (
	"net/http"
	"strconv"

	"stockflow-pos-api/internal/offline"
	"stockflow-pos-api/internal/repository"
	"stockflow-pos-api/pkg/apierror"
	"stockflow-pos-api/pkg/response"
)

// SyncHandler exposes the offline subsystem: connectivity status, pending
// queue depth, manual sync trigger and the run history.
type SyncHandler struct {
	engine  *offline.Engine
	queue   *offline.Queue
	monitor *offline.Monitor
	syncLog repository.SyncLogRepository
}

// NewSyncHandler creates a new sync handler. syncLog may be nil.
func NewSyncHandler(engine *offline.Engine, queue *offline.Queue, monitor *offline.Monitor, syncLog repository.SyncLogRepository) *SyncHandler {
	return &SyncHandler{
		engine:  engine,
		queue:   queue,
		monitor: monitor,
		syncLog: syncLog,
	}
}

// SyncStatusResponse reports the offline subsystem state.
type SyncStatusResponse struct {
	Online       bool `json:"online"`
	PendingSales int  `json:"pending_sales"`
}

// Status handles GET /api/v1/sync/status
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, SyncStatusResponse{
		Online:       h.monitor.Online(),
		PendingSales: h.queue.Len(r.Context()),
	})
}

// Trigger handles POST /api/v1/sync - runs one sync pass immediately.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	result := h.engine.Sync(r.Context(), offline.TriggerManual)
	response.OK(w, result)
}

// History handles GET /api/v1/sync/history
func (h *SyncHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.syncLog == nil {
		response.Error(w, apierror.ServiceUnavailable("sync history unavailable"))
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	runs, err := h.syncLog.RecentSyncRuns(r.Context(), limit)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to read sync history"))
		return
	}
	response.OK(w, runs)
}

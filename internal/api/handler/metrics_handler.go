package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/pkg/metrics"
)

type MetricsHandler struct {
	buffer *metrics.Buffer
}

func NewMetricsHandler(buffer *metrics.Buffer) *MetricsHandler {
	if buffer == nil {
		panic("metrics buffer cannot be nil")
	}
	return &MetricsHandler{buffer: buffer}
}

// Stats GET /admin/metrics
func (h *MetricsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.buffer.Stats())
}

// Samples GET /admin/metrics/samples
// 回傳ring buffer目前保留的原始樣本, 最舊的在前
func (h *MetricsHandler) Samples(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.buffer.Snapshot())
}

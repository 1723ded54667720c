package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	documentsUploadedTotal atomic.Uint64
	documentsDeletedTotal  atomic.Uint64

	rejectedMu    sync.Mutex
	rejectedTotal = map[string]uint64{}

	uploadDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

// IncDocumentsUploaded increments the uploaded counter.
func IncDocumentsUploaded() {
	documentsUploadedTotal.Add(1)
}

// IncDocumentsDeleted increments the deleted counter.
func IncDocumentsDeleted() {
	documentsDeletedTotal.Add(1)
}

// IncDocumentsRejected counts an upload refused by validation, labelled by reason.
func IncDocumentsRejected(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	rejectedMu.Lock()
	rejectedTotal[reason]++
	rejectedMu.Unlock()
}

// ObserveUploadDurationMs records an upload duration in milliseconds.
func ObserveUploadDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	uploadDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "documents_uploaded_total", "Total documents stored", documentsUploadedTotal.Load())
	writeLabelledCounter(&buf, "documents_rejected_total", "Total uploads refused by validation", "reason", snapshotRejected())
	writeCounter(&buf, "documents_deleted_total", "Total documents deleted", documentsDeletedTotal.Load())
	writeHistogram(&buf, "document_upload_duration_ms", "Upload handling duration in milliseconds", uploadDuration.Snapshot())
	return buf.String()
}

func snapshotRejected() map[string]uint64 {
	rejectedMu.Lock()
	defer rejectedMu.Unlock()
	out := make(map[string]uint64, len(rejectedTotal))
	for k, v := range rejectedTotal {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket whose bound covers it; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabelledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

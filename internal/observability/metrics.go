package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu               sync.Mutex
	requestCount     map[string]int64
	errorCount       map[string]int64
	dispatchAttempts map[string]int64
	dispatchFallback int64
	dispatchFailed   int64
	bookingsAccepted int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:     make(map[string]int64),
		errorCount:       make(map[string]int64),
		dispatchAttempts: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordDispatchAttempt counts one channel attempt and its outcome.
func (m *Metrics) RecordDispatchAttempt(channel string, success bool) {
	if m == nil {
		return
	}
	key := channel + "|" + strconv.FormatBool(success)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchAttempts[key]++
}

// RecordDispatchFallback counts deliveries that needed a non-preferred channel.
func (m *Metrics) RecordDispatchFallback() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFallback++
}

// RecordDispatchExhausted counts deliveries where every channel failed.
func (m *Metrics) RecordDispatchExhausted() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFailed++
}

// RecordBookingAccepted counts confirmed bookings.
func (m *Metrics) RecordBookingAccepted() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingsAccepted++
}

// DispatchFallbackCount reports how often the fallback chain was needed.
func (m *Metrics) DispatchFallbackCount() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchFallback
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

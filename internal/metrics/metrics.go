package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex             sync.RWMutex
	checks            map[string]int64
	transportFailures map[string]int64
	responseTimes     map[string][]time.Duration
	statusCodes       map[string]map[int]int64
	lastStatusCode    map[string]int
	healthStatus      map[string]bool
	startTime         time.Time
}

type Snapshot struct {
	TotalChecks            int64                      `json:"total_checks"`
	TotalTransportFailures int64                      `json:"total_transport_failures"`
	Uptime                 time.Duration              `json:"uptime"`
	Endpoints              map[string]EndpointMetrics `json:"endpoints"`
}

type EndpointMetrics struct {
	Checks            int64         `json:"checks"`
	TransportFailures int64         `json:"transport_failures"`
	Healthy           bool          `json:"healthy"`
	LastStatusCode    int           `json:"last_status_code"`
	AvgResponse       time.Duration `json:"avg_response"`
	P50Response       time.Duration `json:"p50_response"`
	P95Response       time.Duration `json:"p95_response"`
	P99Response       time.Duration `json:"p99_response"`
	StatusCodes       map[int]int64 `json:"status_codes"`
}

// RecordCheck stores the outcome of a check that obtained a response.
func (m *Metrics) RecordCheck(endpoint string, duration time.Duration, statusCode int, healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.checks[endpoint]++
	m.recordDuration(endpoint, duration)

	if m.statusCodes[endpoint] == nil {
		m.statusCodes[endpoint] = make(map[int]int64)
	}
	m.statusCodes[endpoint][statusCode]++
	m.lastStatusCode[endpoint] = statusCode
	m.healthStatus[endpoint] = healthy
}

// RecordTransportFailure stores a check that never obtained a response.
// The endpoint is marked unhealthy and its last status code reset to 0.
func (m *Metrics) RecordTransportFailure(endpoint string, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.checks[endpoint]++
	m.transportFailures[endpoint]++
	m.recordDuration(endpoint, duration)
	m.lastStatusCode[endpoint] = 0
	m.healthStatus[endpoint] = false
}

func (m *Metrics) recordDuration(endpoint string, duration time.Duration) {
	m.responseTimes[endpoint] = append(m.responseTimes[endpoint], duration)

	if len(m.responseTimes[endpoint]) > maxSamples {
		m.responseTimes[endpoint] = m.responseTimes[endpoint][1:]
	}
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		Endpoints: make(map[string]EndpointMetrics, len(m.checks)),
	}

	// every recorded event bumps checks, so it holds all known endpoints
	for endpoint, checks := range m.checks {
		snap.TotalChecks += checks
		snap.TotalTransportFailures += m.transportFailures[endpoint]

		em := EndpointMetrics{
			Checks:            checks,
			TransportFailures: m.transportFailures[endpoint],
			Healthy:           m.healthStatus[endpoint],
			LastStatusCode:    m.lastStatusCode[endpoint],
			StatusCodes:       make(map[int]int64, len(m.statusCodes[endpoint])),
		}
		for code, count := range m.statusCodes[endpoint] {
			em.StatusCodes[code] = count
		}

		durations := m.responseTimes[endpoint]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			em.AvgResponse = average(sorted)
			em.P50Response = percentile(sorted, 0.50)
			em.P95Response = percentile(sorted, 0.95)
			em.P99Response = percentile(sorted, 0.99)
		}

		snap.Endpoints[endpoint] = em
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		checks:            make(map[string]int64),
		transportFailures: make(map[string]int64),
		responseTimes:     make(map[string][]time.Duration),
		statusCodes:       make(map[string]map[int]int64),
		lastStatusCode:    make(map[string]int),
		healthStatus:      make(map[string]bool),
		startTime:         time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}

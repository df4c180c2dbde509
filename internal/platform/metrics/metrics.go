package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns a default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "prodledger",
	}
}

// Metrics holds all service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Business metrics
	ShipmentsCreated   *prometheus.CounterVec
	ShipmentsEdited    prometheus.Counter
	StatusTransitions  *prometheus.CounterVec
	StockAdjustments   *prometheus.CounterVec
	NotificationsSent  *prometheus.CounterVec
	MediaStoreRequests *prometheus.CounterVec
}

// New creates a new Metrics instance with a private registry
func New(config *Config) *Metrics {
	ns := config.Namespace

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"service", "method", "path"}),

		HTTPRequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		}),

		MongoDBOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "mongodb_operations_total",
			Help:      "Total number of MongoDB operations",
		}, []string{"service", "collection", "operation", "status"}),

		MongoDBOperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "mongodb_operation_duration_seconds",
			Help:      "MongoDB operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "collection", "operation"}),

		ShipmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "shipments_created_total",
			Help:      "Total number of shipments created",
		}, []string{"service"}),

		ShipmentsEdited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "shipments_edited_total",
			Help:      "Total number of pending shipment edits",
		}),

		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "shipment_status_transitions_total",
			Help:      "Shipment status and payment transitions by target value",
		}, []string{"service", "field", "target"}),

		StockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "stock_adjustments_total",
			Help:      "Stock ledger deltas applied, by direction",
		}, []string{"service", "direction"}),

		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "notifications_sent_total",
			Help:      "Admin notifications published, by outcome",
		}, []string{"service", "status"}),

		MediaStoreRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "media_store_requests_total",
			Help:      "Media store calls, by operation and outcome",
		}, []string{"service", "operation", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.ShipmentsCreated,
		m.ShipmentsEdited,
		m.StatusTransitions,
		m.StockAdjustments,
		m.NotificationsSent,
		m.MediaStoreRequests,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments the in-flight gauge
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements the in-flight gauge
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, status).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// RecordShipmentCreated records a shipment creation
func (m *Metrics) RecordShipmentCreated() {
	m.ShipmentsCreated.WithLabelValues(m.serviceName).Inc()
}

// RecordShipmentEdited records a pending shipment edit
func (m *Metrics) RecordShipmentEdited() {
	m.ShipmentsEdited.Inc()
}

// RecordStatusTransition records a status or payment transition
func (m *Metrics) RecordStatusTransition(field, target string) {
	m.StatusTransitions.WithLabelValues(m.serviceName, field, target).Inc()
}

// RecordStockAdjustment records a stock ledger delta
func (m *Metrics) RecordStockAdjustment(delta int) {
	direction := "credit"
	if delta < 0 {
		direction = "debit"
	}
	m.StockAdjustments.WithLabelValues(m.serviceName, direction).Inc()
}

// RecordNotification records a notification publish outcome
func (m *Metrics) RecordNotification(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.NotificationsSent.WithLabelValues(m.serviceName, status).Inc()
}

// RecordMediaStoreRequest records a media store call outcome
func (m *Metrics) RecordMediaStoreRequest(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.MediaStoreRequests.WithLabelValues(m.serviceName, operation, status).Inc()
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса.
// Все методы безопасны для вызова на nil (метрики выключены в конфиге).
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	ReminderRuns       *prometheus.CounterVec
	RemindersProcessed *prometheus.CounterVec
	BookingTransitions *prometheus.CounterVec
	LedgerTransactions *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),
		ReminderRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminder_runs_total",
			Help:        "Reminder scheduler invocations by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		RemindersProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_processed_total",
			Help:        "Reminder decisions by recipient role, horizon and result",
			ConstLabels: constLabels,
		}, []string{"role", "horizon", "result"}),
		BookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking lifecycle transitions",
			ConstLabels: constLabels,
		}, []string{"transition", "result"}),
		LedgerTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_transactions_total",
			Help:        "Payment transactions recorded",
			ConstLabels: constLabels,
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.ReminderRuns,
		m.RemindersProcessed,
		m.BookingTransitions,
		m.LedgerTransactions,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues().Set(float64(open))
	m.DBInUseConnections.WithLabelValues().Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues().Set(float64(idle))
}

// ReminderRun фиксирует завершение запуска планировщика напоминаний
func (m *Metrics) ReminderRun(result string) {
	if m == nil {
		return
	}
	m.ReminderRuns.WithLabelValues(result).Inc()
}

// ReminderProcessed фиксирует решение по одному получателю
func (m *Metrics) ReminderProcessed(role string, horizon int, result string) {
	if m == nil {
		return
	}
	m.RemindersProcessed.WithLabelValues(role, strconv.Itoa(horizon), result).Inc()
}

// BookingTransition фиксирует попытку перехода состояния бронирования
func (m *Metrics) BookingTransition(transition, result string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(transition, result).Inc()
}

// LedgerTransaction фиксирует запись платежной транзакции
func (m *Metrics) LedgerTransaction(method, status string) {
	if m == nil {
		return
	}
	m.LedgerTransactions.WithLabelValues(method, status).Inc()
}

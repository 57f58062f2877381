package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций для label'а result
const (
	ResultSuccess          = "success"
	ResultCapacityExceeded = "capacity_exceeded"
	ResultRejected         = "rejected"
	ResultError            = "error"
)

// Metrics коллекторы планировщика слотов
type Metrics struct {
	reservations  *prometheus.CounterVec
	releases      *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	heldGauge     prometheus.Gauge
	confirmations prometheus.Counter
}

// New создает и регистрирует коллекторы. Если reg == nil, используется prometheus.DefaultRegisterer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservations_total",
			Help:        "Reservation attempts by booking type, fulfillment path and result",
			ConstLabels: constLabels,
		}, []string{"booking_type", "fulfillment_path", "result"}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_releases_total",
			Help:        "Released reservations by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "selection_transitions_total",
			Help:        "Selection state machine transitions by name and result",
			ConstLabels: constLabels,
		}, []string{"transition", "result"}),
		heldGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "slot_reservations_held",
			Help:        "Reservations currently held and waiting for payment",
			ConstLabels: constLabels,
		}),
		confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slot_confirmations_total",
			Help:        "Held reservations confirmed after successful payment",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(m.reservations, m.releases, m.transitions, m.heldGauge, m.confirmations)

	return m
}

// ObserveReservation учитывает попытку резервирования
func (m *Metrics) ObserveReservation(bookingType, path, result string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(bookingType, path, result).Inc()
	if result == ResultSuccess {
		m.heldGauge.Inc()
	}
}

// ObserveConfirmation учитывает подтверждение резерва
func (m *Metrics) ObserveConfirmation() {
	if m == nil {
		return
	}
	m.confirmations.Inc()
	m.heldGauge.Dec()
}

// ObserveRelease учитывает освобождение резерва; wasHeld - резерв еще не был подтвержден
func (m *Metrics) ObserveRelease(reason string, wasHeld bool) {
	if m == nil {
		return
	}
	m.releases.WithLabelValues(reason).Inc()
	if wasHeld {
		m.heldGauge.Dec()
	}
}

// ObserveTransition учитывает переход машины выбора
func (m *Metrics) ObserveTransition(transition, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(transition, result).Inc()
}

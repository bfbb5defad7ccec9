package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики - количество запросов
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - время обработки запросов
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Время обработки HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - количество ошибок
	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Общее количество HTTP ошибок",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Комнаты - созданные и зарезервированные
	roomsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooms_created_total",
			Help: "Количество созданных комнат по типу",
		},
		[]string{"kind"},
	)

	roomsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rooms_deleted_total",
			Help: "Количество удаленных комнат",
		},
	)

	sessionActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_activations_total",
			Help: "Количество созданных удаленных сессий",
		},
		[]string{"path"},
	)

	joinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_joins_total",
			Help: "Количество попыток входа в комнату по результату",
		},
		[]string{"result"},
	)

	providerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_provider_errors_total",
			Help: "Ошибки провайдера медиа-сессий по операции",
		},
		[]string{"operation"},
	)
)

const (
	RoomKindImmediate = "immediate"
	RoomKindReserved  = "reserved"

	ActivationOnCreate = "create"
	ActivationOnJoin   = "join"
)

// RecordHTTPMetrics записывает метрики HTTP запроса
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())

	// Записываем ошибки (статус >= 400)
	if status >= 400 {
		httpErrorsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	}
}

func IncRoomsCreated(kind string) {
	roomsCreatedTotal.WithLabelValues(kind).Inc()
}

func IncRoomsDeleted() {
	roomsDeletedTotal.Inc()
}

func IncSessionActivations(path string) {
	sessionActivationsTotal.WithLabelValues(path).Inc()
}

// IncJoins - result это "ok" или имя ошибки
func IncJoins(result string) {
	joinsTotal.WithLabelValues(result).Inc()
}

func IncProviderErrors(operation string) {
	providerErrorsTotal.WithLabelValues(operation).Inc()
}

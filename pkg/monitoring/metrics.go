package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PatientsRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hms_patients_registered_total",
			Help: "Total number of patients registered",
		},
	)

	DoctorsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hms_doctors_created_total",
			Help: "Total number of doctors created",
		},
	)

	AppointmentsBooked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hms_appointments_booked_total",
			Help: "Total number of appointments booked",
		},
	)

	IdentifierReservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hms_identifier_reservations_total",
			Help: "Total number of human-readable identifiers reserved",
		},
		[]string{"sequence"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		PatientsRegistered,
		DoctorsCreated,
		AppointmentsBooked,
		IdentifierReservations,
	)
}

// Middleware records request count and latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Package metrics registra las métricas Prometheus del servidor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once    sync.Once
	initErr error

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Dominio
	authCodesIssuedTotal  prometheus.Counter
	authCodeConsumeTotal  *prometheus.CounterVec
	tokensIssuedTotal     *prometheus.CounterVec
	signingKeysCreatedTot prometheus.Counter
)

// Register inicializa y registra las métricas. Devuelve el handler para
// /metrics. Idempotente.
func Register(reg prometheus.Registerer) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	once.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		authCodesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proxima_auth_codes_issued_total",
			Help: "Authorization codes emitidos",
		})

		authCodeConsumeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proxima_auth_code_consume_total",
			Help: "Intentos de consumo de authorization codes por resultado",
		}, []string{"result"}) // ok|not_found|expired|already_used

		tokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proxima_tokens_issued_total",
			Help: "Token sets emitidos por client_id",
		}, []string{"client_id"})

		signingKeysCreatedTot = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proxima_signing_keys_created_total",
			Help: "Signing keys RSA creadas vía API",
		})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration,
			authCodesIssuedTotal, authCodeConsumeTotal,
			tokensIssuedTotal, signingKeysCreatedTot,
		} {
			if err := register(reg, c); err != nil {
				initErr = err
				return
			}
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return promhttp.Handler(), nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, dup := err.(prometheus.AlreadyRegisteredError); dup {
			return nil
		}
		return err
	}
	return nil
}

// ObserveHTTP registra una request completada.
func ObserveHTTP(method, path string, status int, seconds float64) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// AuthCodeIssued registra un code emitido.
func AuthCodeIssued() {
	if authCodesIssuedTotal != nil {
		authCodesIssuedTotal.Inc()
	}
}

// AuthCodeConsume registra un intento de consumo.
func AuthCodeConsume(result string) {
	if authCodeConsumeTotal != nil {
		authCodeConsumeTotal.WithLabelValues(result).Inc()
	}
}

// TokensIssued registra un token set emitido.
func TokensIssued(clientID string) {
	if tokensIssuedTotal != nil {
		tokensIssuedTotal.WithLabelValues(clientID).Inc()
	}
}

// SigningKeyCreated registra una key creada por la API.
func SigningKeyCreated() {
	if signingKeysCreatedTot != nil {
		signingKeysCreatedTot.Inc()
	}
}

func statusLabel(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

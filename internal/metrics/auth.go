package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas Prometheus de autorización. Viven en un paquete standalone para
// evitar ciclos de import entre authz y los paquetes HTTP.

var (
	GuardDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardia_guard_decisions_total",
		Help: "Decisiones del guard chain por operación y veredicto",
	}, []string{"operation", "decision"})

	TokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardia_tokens_issued_total",
		Help: "Tokens emitidos por tipo (access/refresh/permission)",
	}, []string{"kind"})

	TokenDecodeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardia_token_decode_failures_total",
		Help: "Fallas de decodificación de tokens por tipo y causa",
	}, []string{"kind", "reason"})
)

// RegisterAuth registra las métricas de autorización en el registry dado
// (o el default si es nil).
func RegisterAuth(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{GuardDecisions, TokensIssued, TokenDecodeFailures} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

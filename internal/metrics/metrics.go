// Package metrics defines the Prometheus collectors in a standalone package
// to avoid import cycles between the pipeline and HTTP packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_messages_received_total",
		Help: "Mensajes de texto entrantes aceptados por el webhook",
	})

	RepliesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_replies_sent_total",
		Help: "Respuestas salientes por resultado del envío",
	}, []string{"result"})

	Classifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_classifications_total",
		Help: "Clasificaciones de mensajes por tipo detectado",
	}, []string{"tipo"})

	StoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_store_errors_total",
		Help: "Fallas de consultas al almacén remoto por operación",
	}, []string{"op"})
)

// Register registers the bot metrics on the given registry (or the default
// if nil). Re-registration is tolerated so tests can call it repeatedly.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{MessagesReceived, RepliesSent, Classifications, StoreErrors} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

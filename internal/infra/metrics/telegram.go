package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		updatesReceivedTotal,
		dispatchOutcomesTotal,
		repliesSentTotal,
		callbackAnswersTotal,
		webhookRegistrationTotal,
	)
}

var (
	// kind: message|callback|other
	updatesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_received_total",
			Help: "Decoded updates by kind.",
		},
		[]string{"kind"},
	)

	// outcome: command|fallback|callback|unknown_callback|ignored|error
	dispatchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_dispatch_outcomes_total",
			Help: "Dispatch decisions by outcome.",
		},
		[]string{"outcome"},
	)

	// result: ok|error
	repliesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_replies_sent_total",
			Help: "sendMessage attempts by result.",
		},
		[]string{"result"},
	)

	callbackAnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_callback_answers_total",
			Help: "answerCallbackQuery attempts by result.",
		},
		[]string{"result"},
	)

	webhookRegistrationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_registration_total",
			Help: "setWebhook attempts at startup by result.",
		},
		[]string{"result"},
	)
)

func IncUpdate(kind string) { updatesReceivedTotal.WithLabelValues(norm(kind)).Inc() }
func IncOutcome(outcome string) { dispatchOutcomesTotal.WithLabelValues(norm(outcome)).Inc() }

func IncReplySent(ok bool) { repliesSentTotal.WithLabelValues(result(ok)).Inc() }

func IncCallbackAnswer(ok bool) { callbackAnswersTotal.WithLabelValues(result(ok)).Inc() }

func IncWebhookRegistration(ok bool) { webhookRegistrationTotal.WithLabelValues(result(ok)).Inc() }

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

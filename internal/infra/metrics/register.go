package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

// register is called by init() in each metrics file to enqueue collectors.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister registers every enqueued collector with the default registry once.
func MustRegister() {
	MustRegisterWith(prometheus.DefaultRegisterer)
}

// MustRegisterWith registers the enqueued collectors with r. Only the first
// call has an effect.
func MustRegisterWith(r prometheus.Registerer) {
	once.Do(func() {
		if len(collectors) > 0 {
			r.MustRegister(collectors...)
		}
	})
}

func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}

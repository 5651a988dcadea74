package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

// WriteTextfile dumps every metric in reg to path in the Prometheus text
// exposition format, suitable for the node_exporter textfile collector.
// The file is replaced atomically.
func WriteTextfile(reg prom.Gatherer, path string) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return errors.WrapError(err, errors.CategoryWrite, "write metrics textfile").
			WithContext("path", path).
			Build()
	}
	return nil
}

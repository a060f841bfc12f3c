package stats

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteMetrics renders the counters in Prometheus text exposition
// format. This is the CLI's export surface: a run finishes, the
// counters are gathered once through the Collector and written out
// for scraping or diffing. Families arrive from Gather in name order,
// so the output is deterministic for a deterministic run.
func WriteMetrics(w io.Writer, c *Counters) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(c)); err != nil {
		return fmt.Errorf("register counters: %w", err)
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather counters: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, fam := range families {
		if err := enc.Encode(fam); err != nil {
			return fmt.Errorf("encode metric family %s: %w", fam.GetName(), err)
		}
	}
	return nil
}

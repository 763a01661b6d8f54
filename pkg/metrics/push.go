// Package metrics publishes cost figures as gauges to a Prometheus
// Pushgateway. Delivery is a single best-effort push per call.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog/log"

	"costpush/internal/models"
)

// PublishError indicates the push to the gateway failed. There is no
// retry; the caller decides what a failed push means for the run.
type PublishError struct {
	Gateway string
	Job     string
	cause   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("pushing job %q to gateway %s: %v", e.Job, e.Gateway, e.cause)
}

func (e *PublishError) Unwrap() error {
	return e.cause
}

// PublishAccountCost pushes one gauge child per month of the summary.
// The cost also appears as a label value so existing dashboards can
// filter on it. Negative amounts are clamped to zero: credits and
// refunds must not show up as negative cost even though the source
// query already excludes them.
func PublishAccountCost(summary models.MonthlyCostSummary, accountID, gateway, job string) error {
	// A fresh registry per publish call avoids duplicate-registration
	// conflicts between runs.
	registry := prometheus.NewRegistry()

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aws_account_monthly_cost",
		Help: "Unblended account cost in USD by calendar month",
	}, []string{"month", "cost", "account_id"})
	registry.MustRegister(gauge)

	for month, amount := range summary {
		if amount < 0 {
			amount = 0
		}
		gauge.WithLabelValues(month, formatCost(amount), accountID).Set(amount)
	}

	if err := newPusher(gateway, job).Gatherer(registry).Push(); err != nil {
		return &PublishError{Gateway: gateway, Job: job, cause: err}
	}

	log.Info().Str("gateway", gateway).Str("job", job).Int("months", len(summary)).
		Msg("Pushed account cost summary")

	return nil
}

// PublishInstanceCosts pushes one gauge child per estimated instance.
func PublishInstanceCosts(records []models.InstanceCostRecord, gateway, job string) error {
	registry := prometheus.NewRegistry()

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aws_instance_monthly_cost_estimate",
		Help: "Estimated monthly instance cost in USD, compute plus attached storage",
	}, []string{"instance_id", "instance_type", "region"})
	registry.MustRegister(gauge)

	for _, record := range records {
		total := record.MonthlyTotalCost
		if total < 0 {
			total = 0
		}
		gauge.WithLabelValues(record.InstanceID, record.InstanceType, record.Region).Set(total)
	}

	if err := newPusher(gateway, job).Gatherer(registry).Push(); err != nil {
		return &PublishError{Gateway: gateway, Job: job, cause: err}
	}

	log.Info().Str("gateway", gateway).Str("job", job).Int("instances", len(records)).
		Msg("Pushed instance cost estimates")

	return nil
}

// newPusher builds a single-use pusher. The text exposition format
// keeps gateway payloads inspectable.
func newPusher(gateway, job string) *push.Pusher {
	return push.New(gateway, job).Format(expfmt.NewFormat(expfmt.TypeTextPlain))
}

func formatCost(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain-level Prometheus metrics. HTTP metrics are
// recorded by the middleware layer instead.
type Metrics struct {
	BalanceChangesApplied  *prometheus.CounterVec
	BalanceChangesRejected *prometheus.CounterVec
	BalanceChangeDuration  prometheus.Histogram

	PackagesCreated      prometheus.Counter
	PackageStatusUpdates *prometheus.CounterVec
	PackagesDeleted      prometheus.Counter

	AccountsRegistered prometheus.Counter
	DashboardQueries   *prometheus.CounterVec
}

// New creates and registers all metrics on the given registerer. Tests
// pass a fresh prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BalanceChangesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_balance_changes_total",
			Help: "Committed balance changes by direction",
		}, []string{"direction"}),
		BalanceChangesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_balance_changes_rejected_total",
			Help: "Rejected balance changes by reason",
		}, []string{"reason"}),
		BalanceChangeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_balance_change_duration_seconds",
			Help:    "Time to commit a balance change",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		PackagesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "packages_created_total",
			Help: "Packages registered",
		}),
		PackageStatusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "package_status_updates_total",
			Help: "Package status updates by new status",
		}, []string{"status"}),
		PackagesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "packages_deleted_total",
			Help: "Packages deleted",
		}),
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "accounts_registered_total",
			Help: "Accounts created through registration",
		}),
		DashboardQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_queries_total",
			Help: "Dashboard report queries by view and cache outcome",
		}, []string{"view", "cache"}),
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TenantRegistered    prometheus.Counter
	DomainConfigUpdated prometheus.Counter
	APIKeyAuthFailures  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		TenantRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docport_tenants_registered_total",
			Help: "Total number of tenants registered",
		}),
		DomainConfigUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docport_domain_config_updates_total",
			Help: "Total number of domain/subdomain configuration updates",
		}),
		APIKeyAuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docport_api_key_auth_failures_total",
			Help: "Total number of rejected data-plane requests due to bad API keys",
		}),
	}
}

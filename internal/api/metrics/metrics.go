// Package metrics defines and registers all custom Prometheus metrics for
// the storefront auth service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront_auth"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "throttled", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts signed tokens handed to clients.
// Label:
//   - kind: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by kind.",
	},
	[]string{"kind"},
)

// RefreshesTotal counts refresh attempts by outcome.
// Label:
//   - result: "success", "invalid_session", "error"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of refresh attempts, by result.",
	},
	[]string{"result"},
)

// AuthorizeChecksTotal counts permission checks performed for route guards.
// Label:
//   - decision: "allow" or "deny"
var AuthorizeChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorize_checks_total",
		Help:      "Total number of authorization decisions, by outcome.",
	},
	[]string{"decision"},
)

// SingleUseTokensTotal counts single-use token lifecycle events.
// Labels:
//   - kind:   "password_reset" or "email_verification"
//   - result: "issued", "consumed", "rejected"
var SingleUseTokensTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "single_use_tokens_total",
		Help:      "Total number of single-use token events, by kind and result.",
	},
	[]string{"kind", "result"},
)

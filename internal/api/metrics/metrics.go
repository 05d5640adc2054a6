// Package metrics defines the custom Prometheus metrics of the accounting
// service. HTTP request metrics come from the echoprometheus middleware; the
// collectors here describe account-level outcomes.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/telran/accounting/internal/core/domain"
)

const namespace = "accounting"

// AccountOperationsTotal counts account use-case invocations.
// Labels:
//   - operation: add_user, get_user, remove_user, edit_user, add_role, remove_role, change_password
//   - result: ok, exists, not_found, invalid_credentials, validation, error
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_operations_total",
		Help:      "Total number of account operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: ok, invalid_credentials, error
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// Result maps an operation error to its metric label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAccountExists):
		return "exists"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

// ObserveOperation records one account operation outcome.
func ObserveOperation(operation string, err error) {
	AccountOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
}

// ObserveLogin records one login outcome.
func ObserveLogin(err error) {
	LoginAttemptsTotal.WithLabelValues(Result(err)).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	RequestsTotal               = "app_requests_total"
	LoginSuccessTotal           = "login_success_total"
	LoginFailureTotal           = "login_failure_total"
	UserCreatedTotal            = "user_created_total"
	UserUpdatedTotal            = "user_updated_total"
	UserDeletedTotal            = "user_deleted_total"
	PasswordResetRequestedTotal = "password_reset_requested_total"
	PasswordResetCompletedTotal = "password_reset_completed_total"
)

// NewCounter registers the service counter vec on reg. A nil reg uses the
// default registerer.
func NewCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inventoryauth",
			Name:      "general_counters",
		},
		[]string{"result"})
}

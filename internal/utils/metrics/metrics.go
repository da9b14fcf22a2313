// Package metrics exposes the Prometheus collectors for the user-service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttemptsTotal counts login attempts by outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_service_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// RegistrationAttemptsTotal counts registration attempts by outcome.
	RegistrationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_service_registration_attempts_total",
		Help: "The total number of registration attempts",
	}, []string{"status"})

	// VerificationCodesIssuedTotal counts issued verification codes by type.
	VerificationCodesIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_service_verification_codes_issued_total",
		Help: "The total number of verification codes issued",
	}, []string{"type"})

	// VerificationCodesRejectedTotal counts send-code requests rejected by
	// the rate limiter.
	VerificationCodesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_service_verification_codes_rejected_total",
		Help: "The total number of verification code requests rejected by rate limiting",
	}, []string{"type"})

	// TokensIssuedTotal counts issued tokens by kind.
	TokensIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_service_tokens_issued_total",
		Help: "The total number of tokens issued",
	}, []string{"kind"})

	// TokensRevokedTotal counts revoked tokens.
	TokensRevokedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "user_service_tokens_revoked_total",
		Help: "The total number of tokens revoked",
	})
)

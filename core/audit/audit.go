package audit

import (
	"go.uber.org/zap"
)

// Kind identifies a class of security-relevant outcome. Kinds are stable
// strings so downstream log pipelines can filter on them.
type Kind string

const (
	SigninAttempt Kind = "USER_SIGNIN_ATTEMPT"
	SigninSuccess Kind = "USER_SIGNIN_SUCCESS"
	SigninFailure Kind = "USER_SIGNIN_FAILURE"

	AssetCheckout            Kind = "ASSET_CHECKOUT"
	AssetCheckoutCorrected   Kind = "ASSET_CHECKOUT_CORRECTED"
	AssetCheckoutUnconfirmed Kind = "ASSET_CHECKOUT_UNCONFIRMED"
	AssetCheckoutFailed      Kind = "ASSET_CHECKOUT_FAILED"

	AssetCheckin          Kind = "ASSET_CHECKIN"
	CrossUserAssetCheckin Kind = "CROSS_USER_ASSET_CHECKIN"
	AssetCheckinFailed    Kind = "ASSET_CHECKIN_FAILED"

	AssetTransfer       Kind = "ASSET_TRANSFER"
	AssetTransferDenied Kind = "ASSET_TRANSFER_DENIED"
	AssetTransferFailed Kind = "ASSET_TRANSFER_FAILED"

	UserCreated Kind = "USER_CREATED"

	AgreementSubmitted    Kind = "LOAN_AGREEMENT_SUBMITTED"
	AgreementAccessDenied Kind = "LOAN_AGREEMENT_ACCESS_DENIED"
)

// Actor is the request-scoped identity every engine call carries: who is
// acting and the correlation id tying the audit trail to the request logs.
// There is no process-global actor state.
type Actor struct {
	UserID        int
	CorrelationID string
}

// Recorder emits structured audit events. Events are distinguishable by
// kind and are never folded into generic log lines.
type Recorder struct {
	log *zap.Logger
}

// NewRecorder creates a recorder on top of the given logger. A nil logger
// yields a recorder that drops events, which keeps tests quiet.
func NewRecorder(log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{log: log.Named("audit")}
}

// Record emits one audit event.
func (r *Recorder) Record(actor Actor, kind Kind, detail string, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("event", string(kind)),
		zap.Int("actor_id", actor.UserID),
	}
	if actor.CorrelationID != "" {
		base = append(base, zap.String("ray_id", actor.CorrelationID))
	}
	r.log.Info(detail, append(base, fields...)...)
}

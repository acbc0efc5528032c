// Package access decides whether a viewer may see a media item or term.
//
// A Gate runs its checks in a fixed order and stops at the first denial.
// Unpublished items are refused first. The password check always runs
// before the membership check, so a viewer who has not unlocked an item
// never learns whether a membership would also be required.
package access

import (
	"context"
	"net/http"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Kind distinguishes the two lockable things
type Kind string

const (
	KindMedia Kind = "media"
	KindTerm  Kind = "term"
)

// Reason says which check denied access
type Reason string

const (
	ReasonUnpublished Reason = "unpublished"
	ReasonPassword    Reason = "password"
	ReasonMembership  Reason = "membership"
)

// StatusPublish is the only publication status anyone may see. Terms carry
// no status and count as published.
const StatusPublish = "publish"

// Target is a lockable media item or term
type Target struct {
	ID               uint64
	Kind             Kind
	Status           string
	PasswordHash     string
	MembershipLevels []string
}

// Published reports whether non-admin viewers may see the target at all
func (t Target) Published() bool {
	return t.Status == "" || t.Status == StatusPublish
}

// PasswordProtected reports whether the target needs an unlock cookie
func (t Target) PasswordProtected() bool {
	return t.PasswordHash != ""
}

// CookieSource yields request cookies; *http.Request satisfies it
type CookieSource interface {
	Cookie(name string) (*http.Cookie, error)
}

// Viewer is the person asking. UserID 0 is anonymous.
type Viewer struct {
	UserID  uint64
	IsAdmin bool
	Cookies CookieSource
}

func (v Viewer) cookie(name string) (string, bool) {
	if v.Cookies == nil {
		return "", false
	}
	c, err := v.Cookies.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Decision is the outcome of an evaluation
type Decision struct {
	Allowed        bool     `json:"allowed"`
	Reason         Reason   `json:"reason,omitempty"`
	Message        string   `json:"message,omitempty"`
	RequiredLevels []string `json:"required_levels,omitempty"`
}

// Allow is the decision that lets the viewer in
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny locks the target for reason
func Deny(reason Reason, message string, levels []string) Decision {
	return Decision{Reason: reason, Message: message, RequiredLevels: levels}
}

// Check is one gate. It returns Allow to pass the viewer to the next check.
type Check func(ctx context.Context, target Target, viewer Viewer) (Decision, error)

// MembershipProvider answers whether a user holds an active membership on
// any of the given levels
type MembershipProvider interface {
	HasActiveMembership(ctx context.Context, userID uint64, levels []string) (bool, error)
}

// Gate evaluates checks in order
type Gate struct {
	checks []Check
}

// NewGate builds the standard gate: status check, password check, then
// membership check. A nil provider means no membership system is installed.
func NewGate(cfg config.AccessConfig, signer *Signer, memberships MembershipProvider) *Gate {
	return NewGateWithChecks(
		StatusCheck(cfg.UnpublishedMessage),
		PasswordCheck(signer, cfg.PasswordMessage),
		MembershipCheck(cfg, memberships),
	)
}

// NewGateWithChecks builds a gate from explicit checks, evaluated in the
// given order
func NewGateWithChecks(checks ...Check) *Gate {
	return &Gate{checks: checks}
}

// Evaluate runs the checks until one denies. Errors from a check abort the
// evaluation.
func (g *Gate) Evaluate(ctx context.Context, target Target, viewer Viewer) (Decision, error) {
	ctx, span := telemetry.StartAccessSpan(ctx, string(target.Kind), target.ID, viewer.UserID)

	for _, check := range g.checks {
		decision, err := check(ctx, target, viewer)
		if err != nil {
			telemetry.EndSpan(span, err)
			return Decision{}, err
		}
		if !decision.Allowed {
			metrics.RecordAccessDecision(string(target.Kind), string(decision.Reason))
			logger.Log.Debug("Access denied",
				zap.String("kind", string(target.Kind)),
				zap.Uint64("target_id", target.ID),
				logger.WithUserID(viewer.UserID),
				zap.String("reason", string(decision.Reason)),
			)
			telemetry.EndSpan(span, nil, attribute.String("access.reason", string(decision.Reason)))
			return decision, nil
		}
	}
	metrics.RecordAccessDecision(string(target.Kind), "allowed")
	telemetry.EndSpan(span, nil, attribute.Bool("access.allowed", true))
	return Allow(), nil
}

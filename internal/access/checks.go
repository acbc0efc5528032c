package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
)

// PublicLevel marks content that needs no membership
const PublicLevel = "public"

// StatusCheck hides drafts and private items from everyone but admins
func StatusCheck(message string) Check {
	return func(_ context.Context, target Target, viewer Viewer) (Decision, error) {
		if target.Published() || viewer.IsAdmin {
			return Allow(), nil
		}
		return Deny(ReasonUnpublished, message, nil), nil
	}
}

// PasswordCheck denies password-protected targets unless the viewer carries
// a valid unlock cookie for them
func PasswordCheck(signer *Signer, message string) Check {
	return func(_ context.Context, target Target, viewer Viewer) (Decision, error) {
		if !target.PasswordProtected() {
			return Allow(), nil
		}
		value, ok := viewer.cookie(signer.CookieName(target))
		if ok && signer.Verify(target, value) {
			return Allow(), nil
		}
		return Deny(ReasonPassword, message, nil), nil
	}
}

// MembershipCheck denies targets that require a membership level the viewer
// does not hold. It allows everything when gating is off or no provider is
// installed.
func MembershipCheck(cfg config.AccessConfig, memberships MembershipProvider) Check {
	defaults := append([]string(nil), cfg.DefaultMembershipLevels...)

	return func(ctx context.Context, target Target, viewer Viewer) (Decision, error) {
		if !cfg.MembershipGating || memberships == nil {
			return Allow(), nil
		}

		levels := RequiredLevels(target.MembershipLevels, defaults)
		if len(levels) == 0 {
			return Allow(), nil
		}
		if viewer.UserID == 0 {
			return Deny(ReasonMembership, cfg.MembershipMessage, levels), nil
		}

		ok, err := memberships.HasActiveMembership(ctx, viewer.UserID, levels)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to check membership: %w", err)
		}
		if !ok {
			return Deny(ReasonMembership, cfg.MembershipMessage, levels), nil
		}
		return Allow(), nil
	}
}

// RequiredLevels resolves the levels a target needs: its own override, else
// the site default, else none. A list naming "public" requires nothing.
func RequiredLevels(override, defaults []string) []string {
	levels := cleanLevels(override)
	if len(levels) == 0 {
		levels = cleanLevels(defaults)
	}
	for _, level := range levels {
		if level == PublicLevel {
			return nil
		}
	}
	return levels
}

func cleanLevels(in []string) []string {
	out := make([]string, 0, len(in))
	for _, level := range in {
		level = strings.TrimSpace(level)
		if level != "" {
			out = append(out, level)
		}
	}
	return out
}

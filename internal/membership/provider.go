// Package membership stores membership grants and backs the access gate's
// membership check
package membership

import (
	"context"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"gorm.io/gorm"
)

// Provider reads memberships from the database
type Provider struct {
	db     *gorm.DB
	prefix string
	now    func() time.Time
}

// NewProvider creates a membership provider over db using the table prefix
func NewProvider(db *gorm.DB, prefix string) *Provider {
	return &Provider{
		db:     db,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source; used by tests
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

func (p *Provider) table(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).Table(p.prefix + models.TableMemberships)
}

// HasActiveMembership reports whether userID holds an active, unexpired
// membership on any of levels
func (p *Provider) HasActiveMembership(ctx context.Context, userID uint64, levels []string) (bool, error) {
	if userID == 0 || len(levels) == 0 {
		return false, nil
	}

	var n int64
	err := p.table(ctx).
		Where("user_id = ? AND status = ? AND level IN ?", userID, models.MembershipActive, levels).
		Where("(expires_at IS NULL OR expires_at > ?)", p.now()).
		Count(&n).Error
	return n > 0, err
}

// ActiveLevels lists the levels userID currently holds
func (p *Provider) ActiveLevels(ctx context.Context, userID uint64) ([]string, error) {
	var levels []string
	err := p.table(ctx).
		Where("user_id = ? AND status = ?", userID, models.MembershipActive).
		Where("(expires_at IS NULL OR expires_at > ?)", p.now()).
		Distinct().
		Order("level").
		Pluck("level", &levels).Error
	return levels, err
}

// Grant records a membership
func (p *Provider) Grant(ctx context.Context, m *models.Membership) error {
	if m.Status == "" {
		m.Status = models.MembershipActive
	}
	return p.table(ctx).Create(m).Error
}

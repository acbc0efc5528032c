package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "mm_", cfg.Database.TablePrefix)
	assert.True(t, cfg.Engagement.EnableLikes)
	assert.False(t, cfg.Engagement.AutoApproveComments)
	assert.Equal(t, time.Hour, cfg.Engagement.CountCacheTTL)
	assert.Equal(t, 20, cfg.Engagement.CommentsPerPage)
	assert.Equal(t, 24*time.Hour, cfg.Access.UnlockCookieTTL)
	assert.False(t, cfg.Access.MembershipGating)
	assert.Empty(t, cfg.Access.DefaultMembershipLevels)
	assert.True(t, cfg.KeepDataOnUninstall)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MINDFUL_MEDIA_ENGAGEMENT_ENABLE_LIKES", "false")
	t.Setenv("MINDFUL_MEDIA_ACCESS_DEFAULT_MEMBERSHIP_LEVELS", "silver, gold")
	t.Setenv("MINDFUL_MEDIA_DATABASE_DRIVER", "SQLite")
	t.Setenv("MINDFUL_MEDIA_ENGAGEMENT_COUNT_CACHE_TTL", "5m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.Engagement.EnableLikes)
	assert.Equal(t, []string{"silver", "gold"}, cfg.Access.DefaultMembershipLevels)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Engagement.CountCacheTTL)
}

func TestLoadReadsYAMLBelowEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := []byte("engagement:\n  comments_per_page: 50\n  auto_approve_comments: true\ndatabase:\n  table_prefix: wp_\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mindfulmedia.yaml"), yaml, 0o600))
	t.Setenv("MINDFUL_MEDIA_DATABASE_TABLE_PREFIX", "env_")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Engagement.CommentsPerPage)
	assert.True(t, cfg.Engagement.AutoApproveComments)
	assert.Equal(t, "env_", cfg.Database.TablePrefix)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"valid", func(c *config.Config) {}, false},
		{"missing secret", func(c *config.Config) { c.Auth.JWTSecret = "" }, true},
		{"unknown driver", func(c *config.Config) { c.Database.Driver = "mysql" }, true},
		{"zero ttl", func(c *config.Config) { c.Engagement.CountCacheTTL = 0 }, true},
		{"unknown log format", func(c *config.Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Auth.JWTSecret = "secret"
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

package seed_test

import (
	"context"
	"testing"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/cache"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/seed"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAndClean(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	svc := engagement.NewService(st, cache.NewMemoryCache(), config.Default().Engagement)
	seeder := seed.NewSeeder(st, svc)

	res, err := seeder.Seed(ctx, seed.TestOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Users)
	assert.Equal(t, 6, res.Media)
	assert.Equal(t, 5, res.Terms)
	assert.Equal(t, res.Users, res.Comments)

	var likes int64
	require.NoError(t, st.DB().Table(st.Table(models.TableLikes)).Count(&likes).Error)
	assert.Equal(t, int64(res.Likes), likes)

	var admins int64
	require.NoError(t, st.DB().Table(st.Table(models.TableUsers)).Where("is_admin = ?", true).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	require.NoError(t, seeder.Clean(ctx))
	var users int64
	require.NoError(t, st.DB().Table(st.Table(models.TableUsers)).Count(&users).Error)
	assert.Zero(t, users)
}

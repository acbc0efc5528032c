// Package seed fills a development database with plausible engagement data
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/access"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/catalog"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/membership"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

// DemoPassword unlocks every password-protected seeded item and playlist
const DemoPassword = "mindful"

// Levels are the membership levels seeded users may hold
var Levels = []string{"silver", "gold"}

// Options sizes a seeding run
type Options struct {
	Users  int
	Media  int
	Terms  int
	Seed   int64 // 0 picks a time-based seed
	Admins int
}

// DevOptions is a comfortable size for local development
func DevOptions() Options {
	return Options{Users: 25, Media: 40, Terms: 12, Admins: 1}
}

// TestOptions is the smallest run that still touches every table
func TestOptions() Options {
	return Options{Users: 4, Media: 6, Terms: 5, Admins: 1, Seed: 1}
}

// Result counts what a run created
type Result struct {
	Users         int
	Media         int
	Terms         int
	Memberships   int
	Likes         int
	Comments      int
	Subscriptions int
	Watches       int
}

// Seeder handles database seeding operations
type Seeder struct {
	store       *store.Store
	catalog     *catalog.Repository
	memberships *membership.Provider
	engagement  *engagement.Service
	rng         *rand.Rand
}

// NewSeeder creates a seeder. Engagement rows go through the service so
// seeded data obeys the same rules as live traffic.
func NewSeeder(st *store.Store, svc *engagement.Service) *Seeder {
	return &Seeder{
		store:       st,
		catalog:     catalog.NewRepository(st.DB(), st.Prefix()),
		memberships: membership.NewProvider(st.DB(), st.Prefix()),
		engagement:  svc,
	}
}

// Seed creates users, catalog entries, memberships and engagement
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Result, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))
	faker := gofakeit.New(uint64(seed))

	passwordHash, err := access.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	res := &Result{}
	users, err := s.seedUsers(ctx, faker, opts)
	if err != nil {
		return nil, err
	}
	res.Users = len(users)

	media, err := s.seedMedia(ctx, faker, opts.Media, passwordHash)
	if err != nil {
		return nil, err
	}
	res.Media = len(media)

	terms, err := s.seedTerms(ctx, faker, opts.Terms, passwordHash)
	if err != nil {
		return nil, err
	}
	res.Terms = len(terms)

	for _, u := range users {
		if s.rng.Intn(3) != 0 {
			continue
		}
		m := &models.Membership{UserID: u.ID, Level: Levels[s.rng.Intn(len(Levels))]}
		if err := s.memberships.Grant(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to grant membership: %w", err)
		}
		res.Memberships++
	}

	if err := s.seedEngagement(ctx, faker, users, media, terms, res); err != nil {
		return nil, err
	}

	logger.Log.Info("Seeding complete",
		zap.Int("users", res.Users),
		zap.Int("media", res.Media),
		zap.Int("likes", res.Likes),
		zap.Int("comments", res.Comments),
		zap.Int("subscriptions", res.Subscriptions),
	)
	return res, nil
}

func (s *Seeder) seedUsers(ctx context.Context, faker *gofakeit.Faker, opts Options) ([]*models.User, error) {
	users := make([]*models.User, 0, opts.Users)
	seen := make(map[string]bool)
	for len(users) < opts.Users {
		login := strings.ToLower(faker.Username())
		if seen[login] {
			continue
		}
		seen[login] = true

		u := &models.User{
			Login:       login,
			DisplayName: faker.Name(),
			Email:       faker.Email(),
			IsAdmin:     len(users) < opts.Admins,
		}
		if err := s.store.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", login, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Seeder) seedMedia(ctx context.Context, faker *gofakeit.Faker, n int, passwordHash string) ([]*models.MediaItem, error) {
	items := make([]*models.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		item := &models.MediaItem{
			Title:           title(faker.Word(), faker.Word()),
			Status:          models.MediaStatusPublish,
			DurationSeconds: int64(5+s.rng.Intn(56)) * 60,
		}
		switch s.rng.Intn(6) {
		case 0:
			item.PasswordHash = passwordHash
		case 1:
			item.MembershipLevels = models.StringArray{Levels[s.rng.Intn(len(Levels))]}
		}
		if err := s.catalog.CreateMedia(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create media item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

var taxonomies = []string{
	models.TaxonomySeries,
	models.TaxonomyTeacher,
	models.TaxonomyTopic,
	models.TaxonomyCategory,
}

func (s *Seeder) seedTerms(ctx context.Context, faker *gofakeit.Faker, n int, passwordHash string) ([]*models.Term, error) {
	terms := make([]*models.Term, 0, n)
	for i := 0; i < n; i++ {
		taxonomy := taxonomies[i%len(taxonomies)]
		name := title(faker.Word(), faker.Word())
		if taxonomy == models.TaxonomyTeacher {
			name = faker.Name()
		}

		term := &models.Term{
			Taxonomy: taxonomy,
			Name:     name,
			Slug:     fmt.Sprintf("%s-%d", strings.ReplaceAll(strings.ToLower(name), " ", "-"), i),
		}
		if taxonomy == models.TaxonomySeries && s.rng.Intn(2) == 0 {
			term.PasswordHash = passwordHash
		}
		if err := s.catalog.CreateTerm(ctx, term); err != nil {
			return nil, fmt.Errorf("failed to create term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func title(words ...string) string {
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// objectType maps a term onto the subscription type that follows it.
// Playlists are series terms.
func objectType(term *models.Term) models.SubscriptionObjectType {
	return models.SubscriptionObjectType(term.Taxonomy)
}

func (s *Seeder) seedEngagement(ctx context.Context, faker *gofakeit.Faker, users []*models.User, media []*models.MediaItem, terms []*models.Term, res *Result) error {
	if len(media) == 0 {
		return nil
	}
	approved := models.CommentStatusApproved

	for _, u := range users {
		for _, item := range media {
			if s.rng.Intn(3) == 0 {
				if _, err := s.engagement.ToggleLike(ctx, u.ID, item.ID); err != nil {
					return fmt.Errorf("failed to seed like: %w", err)
				}
				res.Likes++
			}

			if s.rng.Intn(4) == 0 {
				if err := s.engagement.RecordWatch(ctx, u.ID, item.ID); err != nil {
					return fmt.Errorf("failed to seed watch: %w", err)
				}
				progress := s.rng.Int63n(item.DurationSeconds + 1)
				if err := s.engagement.SaveProgress(ctx, u.ID, item.ID, progress, item.DurationSeconds); err != nil {
					return fmt.Errorf("failed to seed progress: %w", err)
				}
				res.Watches++
			}
		}

		item := media[s.rng.Intn(len(media))]
		status := approved
		if s.rng.Intn(4) == 0 {
			status = models.CommentStatusPending
		}
		if _, err := s.engagement.AddComment(ctx, u.ID, item.ID, faker.HipsterSentence(), 0, status); err != nil {
			return fmt.Errorf("failed to seed comment: %w", err)
		}
		res.Comments++

		for _, term := range terms {
			if s.rng.Intn(3) != 0 {
				continue
			}
			notify := s.rng.Intn(2) == 0
			if _, err := s.engagement.ToggleSubscription(ctx, u.ID, term.ID, objectType(term), notify); err != nil {
				return fmt.Errorf("failed to seed subscription: %w", err)
			}
			res.Subscriptions++
		}
	}
	return nil
}

// Clean deletes every row from every table under the store's prefix
func (s *Seeder) Clean(ctx context.Context) error {
	tables := []string{
		models.TableLikes,
		models.TableComments,
		models.TableSubscriptions,
		models.TableWatchHistory,
		models.TablePlaybackProgress,
		models.TableMemberships,
		models.TableMediaItems,
		models.TableTerms,
		models.TableUsers,
	}
	for _, name := range tables {
		if err := s.store.DB().WithContext(ctx).Exec("DELETE FROM " + s.store.Table(name)).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", name, err)
		}
	}
	return nil
}

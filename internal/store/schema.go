package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchemaVersion is the schema the code expects. Bump it whenever a model
// or index below changes.
const SchemaVersion = 3

const dbVersionKey = "db_version"

type schemaTable struct {
	name  string
	model interface{}
}

// engagementTables are the relations owned by the store; DropSchema removes them
func engagementTables() []schemaTable {
	return []schemaTable{
		{models.TableLikes, &models.Like{}},
		{models.TableComments, &models.Comment{}},
		{models.TableSubscriptions, &models.Subscription{}},
		{models.TableWatchHistory, &models.WatchHistory{}},
		{models.TablePlaybackProgress, &models.PlaybackProgress{}},
	}
}

// supportTables back the collaborators (users, catalog, memberships). They
// are created with the schema but never dropped by it.
func supportTables() []schemaTable {
	return []schemaTable{
		{models.TableUsers, &models.User{}},
		{models.TableMediaItems, &models.MediaItem{}},
		{models.TableTerms, &models.Term{}},
		{models.TableMemberships, &models.Membership{}},
	}
}

// CreateSchema creates or upgrades every table when the stored version is
// behind SchemaVersion. When the schema is current it costs one lookup, so
// it is safe to call on every startup.
func (s *Store) CreateSchema(ctx context.Context) error {
	current, err := s.StoredVersion(ctx)
	if err != nil {
		return err
	}
	if current >= SchemaVersion {
		return nil
	}

	db := s.db.WithContext(ctx)

	if err := db.Table(s.Table(models.TableEngagementMeta)).AutoMigrate(&models.EngagementMeta{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", models.TableEngagementMeta, err)
	}

	tables := append(engagementTables(), supportTables()...)
	for _, t := range tables {
		if err := db.Table(s.Table(t.name)).AutoMigrate(t.model); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", t.name, err)
		}
	}

	for _, stmt := range s.indexStatements() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	meta := models.EngagementMeta{MetaKey: dbVersionKey, MetaValue: strconv.Itoa(SchemaVersion)}
	err = db.Table(s.Table(models.TableEngagementMeta)).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to store schema version: %w", err)
	}

	logger.Log.Info("Engagement schema migrated",
		zap.Int("from_version", current),
		zap.Int("to_version", SchemaVersion),
		zap.String("table_prefix", s.prefix),
	)
	return nil
}

// DropSchema removes the engagement tables and clears the version marker.
// Whether engagement data is kept on uninstall is the caller's decision.
func (s *Store) DropSchema(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	names := make([]interface{}, 0, len(engagementTables()))
	for _, t := range engagementTables() {
		names = append(names, s.Table(t.name))
	}
	if err := db.Migrator().DropTable(names...); err != nil {
		return fmt.Errorf("failed to drop engagement tables: %w", err)
	}

	metaTable := s.Table(models.TableEngagementMeta)
	if db.Migrator().HasTable(metaTable) {
		if err := db.Table(metaTable).Where("meta_key = ?", dbVersionKey).Delete(&models.EngagementMeta{}).Error; err != nil {
			return fmt.Errorf("failed to clear schema version: %w", err)
		}
	}

	logger.Log.Info("Engagement schema dropped", zap.String("table_prefix", s.prefix))
	return nil
}

// StoredVersion returns the schema version recorded in the database, or 0
// when no schema has been created yet
func (s *Store) StoredVersion(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)
	metaTable := s.Table(models.TableEngagementMeta)
	if !db.Migrator().HasTable(metaTable) {
		return 0, nil
	}

	var meta models.EngagementMeta
	err := db.Table(metaTable).Where("meta_key = ?", dbVersionKey).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	version, err := strconv.Atoi(meta.MetaValue)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", meta.MetaValue, err)
	}
	return version, nil
}

func (s *Store) indexStatements() []string {
	likes := s.Table(models.TableLikes)
	comments := s.Table(models.TableComments)
	subs := s.Table(models.TableSubscriptions)
	watch := s.Table(models.TableWatchHistory)
	progress := s.Table(models.TablePlaybackProgress)
	users := s.Table(models.TableUsers)
	terms := s.Table(models.TableTerms)
	memberships := s.Table(models.TableMemberships)

	return []string{
		// Toggle targets: the unique constraints turn a lost race into a conflict
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_user_post ON %[1]s (user_id, post_id)", likes),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_post ON %[1]s (post_id)", likes),
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_user_object ON %[1]s (user_id, object_id, object_type)", subs),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_object ON %[1]s (object_id, object_type)", subs),

		// Upsert targets
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_user_post ON %[1]s (user_id, post_id)", watch),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_user_watched ON %[1]s (user_id, last_watched_at)", watch),
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_user_post ON %[1]s (user_id, post_id)", progress),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_user_updated ON %[1]s (user_id, updated_at)", progress),

		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_post_status ON %[1]s (post_id, status, created_at)", comments),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_parent ON %[1]s (parent_id)", comments),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_user ON %[1]s (user_id)", comments),

		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_login ON %[1]s (login)", users),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_taxonomy ON %[1]s (taxonomy)", terms),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_user_status ON %[1]s (user_id, status)", memberships),
	}
}

// SchemaStatus describes where the database stands relative to the code
type SchemaStatus struct {
	Stored  int
	Target  int
	Current bool
}

// Status reports the stored and target schema versions
func (s *Store) Status(ctx context.Context) (SchemaStatus, error) {
	stored, err := s.StoredVersion(ctx)
	if err != nil {
		return SchemaStatus{}, err
	}
	return SchemaStatus{
		Stored:  stored,
		Target:  SchemaVersion,
		Current: stored >= SchemaVersion,
	}, nil
}

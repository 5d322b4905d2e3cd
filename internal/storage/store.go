// Package storage keeps chat-to-game-account bindings and reminder cooldowns in SQLite.
package storage

import (
	"clanwatch/internal/models"
	"clanwatch/internal/providers"
	"clanwatch/internal/storage/migrations"
	"clanwatch/internal/structures"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type MembershipStoreInterface interface {
	UpsertBinding(ctx context.Context, binding models.Binding) error
	DeleteBinding(ctx context.Context, groupID, userID int64) (bool, error)
	GetBinding(ctx context.Context, groupID, userID int64) (models.Binding, bool, error)
	GetBindingsForGroup(ctx context.Context, groupID int64) ([]models.Binding, error)
	GetBindingsForTags(ctx context.Context, groupID int64, tags map[string]struct{}) ([]models.Binding, error)
	GetGroupIDs(ctx context.Context) ([]int64, error)
	GetCooldowns(ctx context.Context, groupID int64, userIDs []int64) (map[int64]time.Time, error)
	SetCooldowns(ctx context.Context, groupID int64, userIDs []int64, at time.Time) error
	Close() error
}

// Store is the SQLite membership store. Every write runs inside one
// transaction while holding writeMu, so the process has a single writer.
// Reads take no lock and may miss a write that is still in flight.
type Store struct {
	db      *sql.DB
	writeMu sync.Mutex
	logger  providers.Logger
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite file at path and applies embedded migrations.
func Open(path string, logger providers.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func NewStoreProvider(conf *structures.Config, logger providers.Logger) (MembershipStoreInterface, error) {
	store, err := Open(conf.Storage.Path, logger)
	if err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeStore, "Membership store opened at %s", conf.Storage.Path)
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withWriteTx runs fn in a transaction under the store-wide write lock.
func (s *Store) withWriteTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) UpsertBinding(ctx context.Context, binding models.Binding) error {
	if binding.Tag == "" {
		return fmt.Errorf("binding tag is required")
	}
	createdAt := binding.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bindings (group_id, user_id, tag, display_name, created_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (group_id, user_id) DO UPDATE SET
			   tag = excluded.tag,
			   display_name = excluded.display_name`,
			binding.GroupID, binding.UserID, binding.Tag, binding.DisplayName, toMillis(createdAt),
		)
		if err != nil {
			return fmt.Errorf("upsert binding: %w", err)
		}
		return nil
	})
}

func (s *Store) DeleteBinding(ctx context.Context, groupID, userID int64) (bool, error) {
	var removed bool
	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM bindings WHERE group_id = ? AND user_id = ?`, groupID, userID)
		if err != nil {
			return fmt.Errorf("delete binding: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete binding: %w", err)
		}
		removed = n > 0
		return nil
	})
	return removed, err
}

func scanBinding(row interface{ Scan(...any) error }) (models.Binding, error) {
	var (
		b         models.Binding
		createdAt int64
	)
	if err := row.Scan(&b.GroupID, &b.UserID, &b.Tag, &b.DisplayName, &createdAt); err != nil {
		return models.Binding{}, err
	}
	b.CreatedAt = fromMillis(createdAt)
	return b, nil
}

func (s *Store) GetBinding(ctx context.Context, groupID, userID int64) (models.Binding, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT group_id, user_id, tag, display_name, created_at FROM bindings WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	b, err := scanBinding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Binding{}, false, nil
	}
	if err != nil {
		return models.Binding{}, false, fmt.Errorf("get binding: %w", err)
	}
	return b, true, nil
}

func (s *Store) queryBindings(ctx context.Context, query string, args ...any) ([]models.Binding, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bindings: %w", err)
	}
	defer rows.Close()

	var out []models.Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bindings: %w", err)
	}
	return out, nil
}

func (s *Store) GetBindingsForGroup(ctx context.Context, groupID int64) ([]models.Binding, error) {
	return s.queryBindings(ctx,
		`SELECT group_id, user_id, tag, display_name, created_at FROM bindings WHERE group_id = ? ORDER BY user_id`,
		groupID,
	)
}

func (s *Store) GetBindingsForTags(ctx context.Context, groupID int64, tags map[string]struct{}) ([]models.Binding, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	sorted := make([]string, 0, len(tags))
	for tag := range tags {
		sorted = append(sorted, tag)
	}
	sort.Strings(sorted)

	args := make([]any, 0, len(sorted)+1)
	args = append(args, groupID)
	for _, tag := range sorted {
		args = append(args, tag)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sorted)), ",")
	return s.queryBindings(ctx,
		`SELECT group_id, user_id, tag, display_name, created_at FROM bindings
		 WHERE group_id = ? AND tag IN (`+placeholders+`) ORDER BY user_id`,
		args...,
	)
}

func (s *Store) GetGroupIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT group_id FROM bindings ORDER BY group_id`)
	if err != nil {
		return nil, fmt.Errorf("query group ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group ids: %w", err)
	}
	return out, nil
}

func (s *Store) GetCooldowns(ctx context.Context, groupID int64, userIDs []int64) (map[int64]time.Time, error) {
	out := make(map[int64]time.Time, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(userIDs)+1)
	args = append(args, groupID)
	for _, id := range userIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, last_notified_at FROM cooldowns WHERE group_id = ? AND user_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query cooldowns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID int64
			raw    string
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("scan cooldown: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			s.logger.Debugf(providers.TypeStore, "skipping malformed cooldown for group %d user %d: %q", groupID, userID, raw)
			continue
		}
		out[userID] = ts.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cooldowns: %w", err)
	}
	return out, nil
}

func (s *Store) SetCooldowns(ctx context.Context, groupID int64, userIDs []int64, at time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}
	stamp := at.UTC().Format(time.RFC3339Nano)
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO cooldowns (group_id, user_id, last_notified_at) VALUES (?, ?, ?)
			 ON CONFLICT (group_id, user_id) DO UPDATE SET last_notified_at = excluded.last_notified_at`,
		)
		if err != nil {
			return fmt.Errorf("prepare cooldown upsert: %w", err)
		}
		defer stmt.Close()

		for _, id := range userIDs {
			if _, err := stmt.ExecContext(ctx, groupID, id, stamp); err != nil {
				return fmt.Errorf("upsert cooldown for user %d: %w", id, err)
			}
		}
		return nil
	})
}

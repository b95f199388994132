package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-push-relay/internal/domain"
)

// StoryRepo reads story owners from SQLite.
type StoryRepo struct {
	db    *sql.DB
	query string
}

func NewStoryRepo(db *sql.DB, tableName string) *StoryRepo {
	return &StoryRepo{db: db, query: fmt.Sprintf("SELECT id, user_id FROM %s WHERE id = ? LIMIT 1", tableName)}
}

func (r *StoryRepo) Get(ctx context.Context, storyID string) (*domain.Story, error) {
	var s domain.Story
	err := r.db.QueryRowContext(ctx, r.query, storyID).Scan(&s.ID, &s.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("story %s: %w", storyID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query story: %w", err)
	}
	return &s, nil
}

// ProfileRepo reads profiles from SQLite.
type ProfileRepo struct {
	db    *sql.DB
	query string
}

func NewProfileRepo(db *sql.DB, tableName string) *ProfileRepo {
	return &ProfileRepo{db: db, query: fmt.Sprintf("SELECT id, username, fcm_token FROM %s WHERE id = ? LIMIT 1", tableName)}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var (
		p     domain.Profile
		token sql.NullString
	)
	err := r.db.QueryRowContext(ctx, r.query, userID).Scan(&p.ID, &p.Username, &token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	if token.Valid {
		p.FCMToken = &token.String
	}
	return &p, nil
}

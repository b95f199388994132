package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-push-relay/internal/config"
	"github.com/go-push-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTables = config.Tables{Stories: "stories", Profiles: "profiles", Replies: "story_replies"}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:", testTables)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
INSERT INTO profiles (id, username, fcm_token) VALUES ('U1', 'alice', 'TOK123'), ('U2', 'bob', NULL);
INSERT INTO stories (id, user_id) VALUES ('S1', 'U1');
`)
	require.NoError(t, err)
	return db
}

func TestOpen_RejectsBadTableName(t *testing.T) {
	_, err := Open(":memory:", config.Tables{Stories: "stories; DROP", Profiles: "p", Replies: "r"})
	assert.ErrorContains(t, err, "invalid table name")
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, initSchema(db, testTables))
}

func TestStoryRepo_Get(t *testing.T) {
	repo := NewStoryRepo(openTestDB(t), "stories")

	s, err := repo.Get(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, &domain.Story{ID: "S1", UserID: "U1"}, s)

	_, err = repo.Get(context.Background(), "S404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileRepo_Get(t *testing.T) {
	repo := NewProfileRepo(openTestDB(t), "profiles")

	p, err := repo.Get(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "TOK123", p.DeviceToken())

	p, err = repo.Get(context.Background(), "U2")
	require.NoError(t, err)
	assert.Nil(t, p.FCMToken)

	_, err = repo.Get(context.Background(), "U9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileRepo_Get_ClosedDB(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepo(db, "profiles")
	require.NoError(t, db.Close())

	_, err := repo.Get(context.Background(), "U1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

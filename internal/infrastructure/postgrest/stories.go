package postgrest

import (
	"context"

	"github.com/go-push-relay/internal/domain"
	"github.com/supabase-community/postgrest-go"
)

// StoryRepo reads story owners through the Supabase REST API.
type StoryRepo struct {
	client    *postgrest.Client
	tableName string
}

func NewStoryRepo(client *postgrest.Client, tableName string) *StoryRepo {
	return &StoryRepo{client: client, tableName: tableName}
}

// Get returns the story with the given id. The postgrest client has no
// per-request context, so ctx is only checked before the call.
func (r *StoryRepo) Get(ctx context.Context, storyID string) (*domain.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fetchOne[domain.Story](r.client, r.tableName, "id,user_id", "id", storyID)
}

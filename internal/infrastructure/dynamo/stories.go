package dynamo

import (
	"context"

	"github.com/go-push-relay/internal/domain"
)

// StoryRepo provides typed DynamoDB reads for the stories table.
type StoryRepo struct {
	client    itemGetter
	tableName string
}

func NewStoryRepo(client itemGetter, tableName string) *StoryRepo {
	return &StoryRepo{client: client, tableName: tableName}
}

func (r *StoryRepo) Get(ctx context.Context, storyID string) (*domain.Story, error) {
	return getByID[domain.Story](ctx, r.client, r.tableName, storyID, "id", "user_id")
}

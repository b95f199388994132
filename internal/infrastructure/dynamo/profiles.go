package dynamo

import (
	"context"

	"github.com/go-push-relay/internal/domain"
)

// ProfileRepo provides typed DynamoDB reads for the profiles table.
type ProfileRepo struct {
	client    itemGetter
	tableName string
}

func NewProfileRepo(client itemGetter, tableName string) *ProfileRepo {
	return &ProfileRepo{client: client, tableName: tableName}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return getByID[domain.Profile](ctx, r.client, r.tableName, userID, "id", "username", "fcm_token")
}

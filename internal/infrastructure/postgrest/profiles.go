package postgrest

import (
	"context"

	"github.com/go-push-relay/internal/domain"
	"github.com/supabase-community/postgrest-go"
)

// ProfileRepo reads profiles through the Supabase REST API.
type ProfileRepo struct {
	client    *postgrest.Client
	tableName string
}

func NewProfileRepo(client *postgrest.Client, tableName string) *ProfileRepo {
	return &ProfileRepo{client: client, tableName: tableName}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fetchOne[domain.Profile](r.client, r.tableName, "id,username,fcm_token", "id", userID)
}

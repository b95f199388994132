package postgrest

import (
	"strings"

	"github.com/go-push-relay/internal/config"
	"github.com/supabase-community/postgrest-go"
)

// NewClient creates a PostgREST client for the Supabase project at
// cfg.SupabaseURL, authenticated with the service-role key.
func NewClient(cfg *config.Config) *postgrest.Client {
	return newClient(cfg.SupabaseURL, cfg.SupabaseKey)
}

func newClient(baseURL, key string) *postgrest.Client {
	restURL := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(restURL, "/rest/v1") {
		restURL += "/rest/v1"
	}
	headers := map[string]string{"apikey": key}
	if key != "" {
		headers["Authorization"] = "Bearer " + key
	}
	return postgrest.NewClient(restURL, "", headers)
}

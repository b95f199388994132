package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-push-relay/internal/application/reply"
	"github.com/go-push-relay/internal/config"
	"github.com/go-push-relay/internal/domain"
	"github.com/go-push-relay/internal/infrastructure/dynamo"
	"github.com/go-push-relay/internal/infrastructure/fcm"
	"github.com/go-push-relay/internal/infrastructure/postgrest"
	"github.com/go-push-relay/internal/infrastructure/sns"
	"github.com/go-push-relay/internal/infrastructure/sqlite"
)

type stores struct {
	stories  reply.StoryStore
	profiles reply.ProfileStore
	closer   io.Closer
}

func (s *stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func buildStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.StorePostgREST:
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required for the %s store", cfg.StoreBackend)
		}
		client := postgrest.NewClient(cfg)
		return &stores{
			stories:  postgrest.NewStoryRepo(client, cfg.Tables.Stories),
			profiles: postgrest.NewProfileRepo(client, cfg.Tables.Profiles),
		}, nil
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AWSEndpointURL != "" {
			dynamo.Bootstrap(ctx, client, cfg.Tables, logger)
		}
		return &stores{
			stories:  dynamo.NewStoryRepo(client, cfg.Tables.Stories),
			profiles: dynamo.NewProfileRepo(client, cfg.Tables.Profiles),
		}, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return &stores{
			stories:  sqlite.NewStoryRepo(db, cfg.Tables.Stories),
			profiles: sqlite.NewProfileRepo(db, cfg.Tables.Profiles),
			closer:   db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func buildSender(ctx context.Context, cfg *config.Config) (reply.Sender, error) {
	switch cfg.PushProvider {
	case config.PushFCM:
		return fcm.NewSender(ctx, cfg)
	case config.PushSNS:
		return sns.NewSender(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown PUSH_PROVIDER %q", cfg.PushProvider)
	}
}

// dryRunSender logs the push instead of sending it.
type dryRunSender struct {
	logger *log.Logger
}

func (s dryRunSender) Send(_ context.Context, msg domain.PushMessage) (string, error) {
	s.logger.Info("dry run, push not sent",
		"token", msg.Token,
		"title", msg.Notification.Title,
		"body", msg.Notification.Body,
		"data", msg.Data,
	)
	return "dry-run", nil
}

func serviceOptions(cfg *config.Config) reply.Options {
	return reply.Options{
		RepliesTable:        cfg.Tables.Replies,
		AllowSelfReply:      cfg.AllowSelfReply,
		RequireOwnerProfile: cfg.RequireOwnerProfile,
	}
}

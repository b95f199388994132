package reply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-push-relay/internal/domain"
	"github.com/go-push-relay/internal/pkg/validate"
)

// Fixed parts of the story-reply push payload.
const (
	NotificationTitle = "New Story Reply"
	ClickAction       = "FLUTTER_NOTIFICATION_CLICK"
	DefaultSenderName = "Someone"
)

var timeNow = time.Now

// Result names the terminal state of a processed change event.
type Result string

const (
	ResultIgnored   Result = "ignored"
	ResultSelfReply Result = "self_reply"
	ResultNoProfile Result = "no_profile"
	ResultNoToken   Result = "no_token"
	ResultSent      Result = "sent"
	ResultFailed    Result = "failed"
)

// Outcome is what Notify reports for a non-error run.
type Outcome struct {
	Result Result
	// MessageID is the provider's reference for a sent push. Empty otherwise.
	MessageID string
}

type Service interface {
	Notify(ctx context.Context, ev domain.ChangeEvent) (Outcome, error)
}

// StoryStore resolves a story's owner. Absent stories wrap domain.ErrNotFound.
type StoryStore interface {
	Get(ctx context.Context, storyID string) (*domain.Story, error)
}

// ProfileStore resolves user profiles. Absent profiles wrap domain.ErrNotFound.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

// Sender dispatches one push message and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, msg domain.PushMessage) (string, error)
}

// Recorder observes outcomes. A nil Recorder is allowed.
type Recorder interface {
	ObserveOutcome(result Result)
	ObserveDispatch(seconds float64, err error)
}

// Options controls policy decisions that differ between deployments.
type Options struct {
	// RepliesTable is the table whose INSERT events trigger a push.
	RepliesTable string
	// AllowSelfReply sends a push even when the owner replies to their own story.
	AllowSelfReply bool
	// RequireOwnerProfile turns a missing owner profile into a not-found error
	// instead of a no-op.
	RequireOwnerProfile bool
}

// ServiceDeps groups the collaborators of NewService.
type ServiceDeps struct {
	Stories  StoryStore
	Profiles ProfileStore
	Sender   Sender
	Recorder Recorder
	Logger   *log.Logger
	Options  Options
}

type service struct {
	stories  StoryStore
	profiles ProfileStore
	sender   Sender
	recorder Recorder
	logger   *log.Logger
	opts     Options
}

func NewService(deps ServiceDeps) Service {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	if deps.Options.RepliesTable == "" {
		deps.Options.RepliesTable = "story_replies"
	}
	return &service{
		stories:  deps.Stories,
		profiles: deps.Profiles,
		sender:   deps.Sender,
		recorder: deps.Recorder,
		logger:   logger,
		opts:     deps.Options,
	}
}

func (s *service) Notify(ctx context.Context, ev domain.ChangeEvent) (Outcome, error) {
	out, err := s.notify(ctx, ev)
	if err != nil {
		s.observe(ResultFailed)
		return Outcome{Result: ResultFailed}, err
	}
	s.observe(out.Result)
	return out, nil
}

func (s *service) notify(ctx context.Context, ev domain.ChangeEvent) (Outcome, error) {
	if ev.Type != domain.EventInsert || ev.Table != s.opts.RepliesTable {
		s.logger.Debug("ignoring change event", "type", ev.Type, "table", ev.Table)
		return Outcome{Result: ResultIgnored}, nil
	}

	rec, err := decodeReply(ev.Record)
	if err != nil {
		return Outcome{}, err
	}
	logger := s.logger.With("story_id", rec.StoryID, "sender_id", rec.UserID)

	story, err := s.stories.Get(ctx, rec.StoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Outcome{}, fmt.Errorf("story %s %w", rec.StoryID, domain.ErrNotFound)
		}
		return Outcome{}, fmt.Errorf("lookup story %s: %w", rec.StoryID, err)
	}
	logger = logger.With("owner_id", story.UserID)

	if story.UserID == rec.UserID && !s.opts.AllowSelfReply {
		logger.Info("self-reply, not notifying")
		return Outcome{Result: ResultSelfReply}, nil
	}

	owner, err := s.profiles.Get(ctx, story.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && s.opts.RequireOwnerProfile {
			return Outcome{}, fmt.Errorf("owner profile %s %w", story.UserID, domain.ErrNotFound)
		}
		logger.Warn("owner profile unavailable", "err", err)
		return Outcome{Result: ResultNoProfile}, nil
	}
	token := owner.DeviceToken()
	if token == "" {
		logger.Info("no device token for owner")
		return Outcome{Result: ResultNoToken}, nil
	}

	msg := BuildMessage(token, rec, s.senderName(ctx, logger, rec.UserID))

	id, err := s.dispatch(ctx, msg)
	if err != nil {
		return Outcome{}, err
	}
	logger.Info("story reply push sent", "message_id", id)
	return Outcome{Result: ResultSent, MessageID: id}, nil
}

// senderName never fails; lookup problems fall back to DefaultSenderName.
func (s *service) senderName(ctx context.Context, logger *log.Logger, userID string) string {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("sender profile lookup failed", "err", err)
		}
		return DefaultSenderName
	}
	if p.Username == "" {
		return DefaultSenderName
	}
	return p.Username
}

func (s *service) dispatch(ctx context.Context, msg domain.PushMessage) (string, error) {
	start := timeNow()
	id, err := s.sender.Send(ctx, msg)
	if s.recorder != nil {
		s.recorder.ObserveDispatch(timeNow().Sub(start).Seconds(), err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDispatch, err)
	}
	return id, nil
}

func (s *service) observe(r Result) {
	if s.recorder != nil {
		s.recorder.ObserveOutcome(r)
	}
}

// BuildMessage assembles the push sent to a story owner for one reply.
func BuildMessage(token string, rec domain.ReplyRecord, senderName string) domain.PushMessage {
	return domain.PushMessage{
		Token: token,
		Notification: domain.PushNotification{
			Title: NotificationTitle,
			Body:  fmt.Sprintf("%s: %s", senderName, rec.Message),
		},
		Data: map[string]string{
			"story_id":     rec.StoryID,
			"click_action": ClickAction,
		},
	}
}

func decodeReply(raw json.RawMessage) (domain.ReplyRecord, error) {
	var rec domain.ReplyRecord
	if len(raw) == 0 || string(raw) == "null" {
		return rec, fmt.Errorf("missing record: %w", domain.ErrBadRequest)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("invalid record: %w", domain.ErrBadRequest)
	}
	if err := validate.Struct(rec); err != nil {
		return rec, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	return rec, nil
}

package reply

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-push-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStoryStore struct{ mock.Mock }

func (m *mockStoryStore) Get(ctx context.Context, storyID string) (*domain.Story, error) {
	args := m.Called(ctx, storyID)
	if s, _ := args.Get(0).(*domain.Story); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, msg domain.PushMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type fakeRecorder struct {
	outcomes   []Result
	dispatches int
	dispatchOK int
}

func (f *fakeRecorder) ObserveOutcome(r Result) { f.outcomes = append(f.outcomes, r) }

func (f *fakeRecorder) ObserveDispatch(_ float64, err error) {
	f.dispatches++
	if err == nil {
		f.dispatchOK++
	}
}

// --- helpers ---

func strPtr(s string) *string { return &s }

func replyEvent(t *testing.T, storyID, userID, message string) domain.ChangeEvent {
	t.Helper()
	rec, err := json.Marshal(domain.ReplyRecord{StoryID: storyID, UserID: userID, Message: message})
	require.NoError(t, err)
	return domain.ChangeEvent{Type: domain.EventInsert, Table: "story_replies", Record: rec}
}

type fixture struct {
	stories  *mockStoryStore
	profiles *mockProfileStore
	sender   *mockSender
	recorder *fakeRecorder
}

func newFixture() *fixture {
	return &fixture{
		stories:  &mockStoryStore{},
		profiles: &mockProfileStore{},
		sender:   &mockSender{},
		recorder: &fakeRecorder{},
	}
}

func (f *fixture) service(opts Options) Service {
	return NewService(ServiceDeps{
		Stories:  f.stories,
		Profiles: f.profiles,
		Sender:   f.sender,
		Recorder: f.recorder,
		Options:  opts,
	})
}

func (f *fixture) assertNoDispatch(t *testing.T) {
	t.Helper()
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// --- filter ---

func TestNotify_IgnoresOtherEvents(t *testing.T) {
	cases := []domain.ChangeEvent{
		{Type: "UPDATE", Table: "story_replies"},
		{Type: "DELETE", Table: "story_replies"},
		{Type: "INSERT", Table: "stories"},
		{Type: "insert", Table: "story_replies"},
		{},
	}
	for _, ev := range cases {
		f := newFixture()
		out, err := f.service(Options{}).Notify(context.Background(), ev)
		require.NoError(t, err)
		assert.Equal(t, ResultIgnored, out.Result)
		f.stories.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		f.profiles.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		f.assertNoDispatch(t)
	}
}

func TestNotify_CustomRepliesTable(t *testing.T) {
	f := newFixture()
	ev := replyEvent(t, "S1", "U2", "hi")
	out, err := f.service(Options{RepliesTable: "replies"}).Notify(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, out.Result)
}

// --- validation ---

func TestNotify_MissingRecord(t *testing.T) {
	f := newFixture()
	ev := domain.ChangeEvent{Type: domain.EventInsert, Table: "story_replies"}
	_, err := f.service(Options{}).Notify(context.Background(), ev)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	f.stories.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestNotify_RecordMissingStoryID(t *testing.T) {
	f := newFixture()
	_, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "", "U2", "hi"))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.ErrorContains(t, err, "story_id")
}

func TestNotify_RecordNotAnObject(t *testing.T) {
	f := newFixture()
	ev := domain.ChangeEvent{Type: domain.EventInsert, Table: "story_replies", Record: json.RawMessage(`"oops"`)}
	_, err := f.service(Options{}).Notify(context.Background(), ev)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

// --- story lookup ---

func TestNotify_StoryNotFound(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S404").Return(nil, domain.ErrNotFound)

	out, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S404", "U2", "hi"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "story S404 not found")
	assert.Equal(t, ResultFailed, out.Result)
	assert.Equal(t, []Result{ResultFailed}, f.recorder.outcomes)
	f.assertNoDispatch(t)
}

func TestNotify_StoryLookupError(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(nil, errors.New("connection refused"))

	_, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

// --- self-reply guard ---

func TestNotify_SelfReplyIsNoOp(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)

	out, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U1", "me"))
	require.NoError(t, err)
	assert.Equal(t, ResultSelfReply, out.Result)
	f.profiles.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.assertNoDispatch(t)
}

func TestNotify_SelfReplyAllowedDispatches(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(&domain.Profile{ID: "U1", Username: "alice", FCMToken: strPtr("TOK1")}, nil)
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(m domain.PushMessage) bool {
		return m.Token == "TOK1" && m.Notification.Body == "alice: me"
	})).Return("msg-1", nil)

	out, err := f.service(Options{AllowSelfReply: true}).Notify(context.Background(), replyEvent(t, "S1", "U1", "me"))
	require.NoError(t, err)
	assert.Equal(t, ResultSent, out.Result)
	f.sender.AssertExpectations(t)
}

// --- owner profile ---

func TestNotify_OwnerProfileMissingIsNoOp(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(nil, domain.ErrNotFound)

	out, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	require.NoError(t, err)
	assert.Equal(t, ResultNoProfile, out.Result)
	f.assertNoDispatch(t)
}

func TestNotify_OwnerProfileMissingRequired(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(nil, domain.ErrNotFound)

	_, err := f.service(Options{RequireOwnerProfile: true}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "owner profile U1 not found")
	f.assertNoDispatch(t)
}

func TestNotify_OwnerProfileLookupErrorIsNoOp(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(nil, errors.New("timeout"))

	out, err := f.service(Options{RequireOwnerProfile: true}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	require.NoError(t, err)
	assert.Equal(t, ResultNoProfile, out.Result)
}

func TestNotify_NoToken(t *testing.T) {
	for _, tok := range []*string{nil, strPtr("")} {
		f := newFixture()
		f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
		f.profiles.On("Get", mock.Anything, "U1").Return(&domain.Profile{ID: "U1", FCMToken: tok}, nil)

		out, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
		require.NoError(t, err)
		assert.Equal(t, ResultNoToken, out.Result)
		f.profiles.AssertNotCalled(t, "Get", mock.Anything, "U2")
		f.assertNoDispatch(t)
	}
}

// --- dispatch ---

func TestNotify_EndToEnd(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(&domain.Profile{ID: "U1", Username: "alice", FCMToken: strPtr("TOK123")}, nil)
	f.profiles.On("Get", mock.Anything, "U2").Return(&domain.Profile{ID: "U2", Username: "bob"}, nil)

	want := domain.PushMessage{
		Token:        "TOK123",
		Notification: domain.PushNotification{Title: "New Story Reply", Body: "bob: hi"},
		Data:         map[string]string{"story_id": "S1", "click_action": "FLUTTER_NOTIFICATION_CLICK"},
	}
	f.sender.On("Send", mock.Anything, want).Return("projects/p/messages/1", nil).Once()

	out, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	require.NoError(t, err)
	assert.Equal(t, Outcome{Result: ResultSent, MessageID: "projects/p/messages/1"}, out)
	f.sender.AssertExpectations(t)
	assert.Equal(t, []Result{ResultSent}, f.recorder.outcomes)
	assert.Equal(t, 1, f.recorder.dispatchOK)
}

func TestNotify_SenderProfileMissingUsesPlaceholder(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(&domain.Profile{ID: "U1", FCMToken: strPtr("TOK")}, nil)
	f.profiles.On("Get", mock.Anything, "U2").Return(nil, domain.ErrNotFound)
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(m domain.PushMessage) bool {
		return m.Notification.Body == "Someone: hi"
	})).Return("id", nil)

	out, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	require.NoError(t, err)
	assert.Equal(t, ResultSent, out.Result)
	f.sender.AssertExpectations(t)
}

func TestNotify_SenderLookupErrorUsesPlaceholder(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(&domain.Profile{ID: "U1", FCMToken: strPtr("TOK")}, nil)
	f.profiles.On("Get", mock.Anything, "U2").Return(nil, errors.New("boom"))
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(m domain.PushMessage) bool {
		return m.Notification.Body == "Someone: hi"
	})).Return("id", nil)

	_, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	require.NoError(t, err)
	f.sender.AssertExpectations(t)
}

func TestNotify_DispatchFailure(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(&domain.Profile{ID: "U1", FCMToken: strPtr("BAD")}, nil)
	f.profiles.On("Get", mock.Anything, "U2").Return(&domain.Profile{ID: "U2", Username: "bob"}, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return("", errors.New("registration token is not valid")).Once()

	out, err := f.service(Options{}).Notify(context.Background(), replyEvent(t, "S1", "U2", "hi"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDispatch)
	assert.Contains(t, err.Error(), "registration token is not valid")
	assert.Equal(t, ResultFailed, out.Result)
	assert.Equal(t, 1, f.recorder.dispatches)
	assert.Equal(t, 0, f.recorder.dispatchOK)
	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestNotify_ReplayDispatchesTwice(t *testing.T) {
	f := newFixture()
	f.stories.On("Get", mock.Anything, "S1").Return(&domain.Story{ID: "S1", UserID: "U1"}, nil)
	f.profiles.On("Get", mock.Anything, "U1").Return(&domain.Profile{ID: "U1", FCMToken: strPtr("TOK")}, nil)
	f.profiles.On("Get", mock.Anything, "U2").Return(&domain.Profile{ID: "U2", Username: "bob"}, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return("id", nil)

	svc := f.service(Options{})
	ev := replyEvent(t, "S1", "U2", "hi")
	for range 2 {
		_, err := svc.Notify(context.Background(), ev)
		require.NoError(t, err)
	}
	f.sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("TOK", domain.ReplyRecord{StoryID: "S9", UserID: "U2", Message: "nice pic"}, "carol")
	assert.Equal(t, "TOK", msg.Token)
	assert.Equal(t, "New Story Reply", msg.Notification.Title)
	assert.Equal(t, "carol: nice pic", msg.Notification.Body)
	assert.Equal(t, map[string]string{"story_id": "S9", "click_action": "FLUTTER_NOTIFICATION_CLICK"}, msg.Data)
}

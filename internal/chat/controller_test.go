package chat_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agentchat/internal/agentapi"
	"agentchat/internal/chat"
	"agentchat/internal/transcript"
)

type fakePrompter struct {
	calls atomic.Int32
	reply string
	err   error
	gate  chan struct{}
}

func (f *fakePrompter) Prompt(ctx context.Context, text string) (string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return f.reply, f.err
}

func TestSubmitSuccessScenario(t *testing.T) {
	store := transcript.NewStore()
	p := &fakePrompter{reply: "Hi there"}
	c := chat.New(store, p)

	require.True(t, c.Submit(context.Background(), "Hello"))

	require.Equal(t, []transcript.Message{
		{Role: transcript.RoleUser, Content: "Hello"},
		{Role: transcript.RoleAgent, Content: "Hi there"},
	}, store.Messages())
	require.False(t, c.Pending().Get())
}

func TestSubmitFailureScenario(t *testing.T) {
	store := transcript.NewStore()
	c := chat.New(store, &fakePrompter{err: errors.New("connection refused")})

	require.True(t, c.Submit(context.Background(), "Hello"))

	require.Equal(t, []transcript.Message{
		{Role: transcript.RoleUser, Content: "Hello"},
		{Role: transcript.RoleError, Content: "Sorry, something went wrong."},
	}, store.Messages())
	require.False(t, c.Pending().Get())
}

func TestSubmitBlankIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		store := transcript.NewStore()
		p := &fakePrompter{reply: "x"}
		c := chat.New(store, p)
		c.SetDraft(text)

		pendingChanges := 0
		c.Pending().Subscribe(func(bool) { pendingChanges++ })

		require.False(t, c.Submit(context.Background(), text))
		require.Zero(t, store.Len())
		require.Zero(t, p.calls.Load())
		require.Zero(t, pendingChanges)
		require.False(t, c.Pending().Get())
		require.Equal(t, text, c.Draft().Get())
	}
}

func TestSubmitWhilePendingIsNoop(t *testing.T) {
	store := transcript.NewStore()
	p := &fakePrompter{reply: "first", gate: make(chan struct{})}
	c := chat.New(store, p)

	done := make(chan bool)
	go func() { done <- c.Submit(context.Background(), "one") }()
	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.True(t, c.Pending().Get())

	require.False(t, c.Submit(context.Background(), "two"))
	require.Equal(t, int32(1), p.calls.Load())
	require.Equal(t, 1, store.Len())

	close(p.gate)
	require.True(t, <-done)
	require.Equal(t, 2, store.Len())
	require.False(t, c.Pending().Get())
}

func TestSubmitClearsDraft(t *testing.T) {
	c := chat.New(transcript.NewStore(), &fakePrompter{reply: "ok"})
	c.SetDraft("some text the user typed")
	require.True(t, c.Submit(context.Background(), "Hello"))
	require.Equal(t, "", c.Draft().Get())
}

func TestSubmitKeepsOriginalText(t *testing.T) {
	store := transcript.NewStore()
	c := chat.New(store, &fakePrompter{reply: "ok"})
	require.True(t, c.Submit(context.Background(), "  padded  "))
	require.Equal(t, "  padded  ", store.Messages()[0].Content)
}

func TestBeginSendSettleLifecycle(t *testing.T) {
	store := transcript.NewStore()
	c := chat.New(store, &fakePrompter{reply: "pong"}, chat.WithFallback("custom failure"))

	var pendingSeen []bool
	c.Pending().Subscribe(func(v bool) { pendingSeen = append(pendingSeen, v) })

	ex, ok := c.Begin("ping")
	require.True(t, ok)
	require.Equal(t, 0, ex.UserIndex)
	require.True(t, c.Pending().Get())
	require.Equal(t, 1, store.Len())

	_, ok = c.Begin("again")
	require.False(t, ok)

	out := c.Send(context.Background(), ex)
	require.Equal(t, 1, store.Len(), "send must not append")
	require.True(t, c.Settle(out))
	require.False(t, c.Settle(out), "second settle ignored")

	require.Equal(t, 2, store.Len())
	require.Equal(t, []bool{true, false}, pendingSeen)
}

func TestSettleIgnoresStaleExchange(t *testing.T) {
	store := transcript.NewStore()
	c := chat.New(store, &fakePrompter{reply: "ok"})
	ex, ok := c.Begin("first")
	require.True(t, ok)
	require.True(t, c.Settle(chat.Outcome{Exchange: ex, Reply: "one"}))

	require.False(t, c.Settle(chat.Outcome{Exchange: ex, Reply: "dup"}))
	require.False(t, c.Settle(chat.Outcome{}))
	require.Equal(t, 2, store.Len())
}

func TestCustomFallback(t *testing.T) {
	store := transcript.NewStore()
	c := chat.New(store, &fakePrompter{err: errors.New("boom")}, chat.WithFallback("Une erreur est survenue."))
	c.Submit(context.Background(), "Bonjour")
	require.Equal(t, "Une erreur est survenue.", store.Messages()[1].Content)

	require.Equal(t, chat.DefaultFallback, chat.New(store, nil, chat.WithFallback("  ")).Fallback())
}

func TestSubmitAgainstHTTPBackend(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		role    transcript.Role
		content string
	}{
		{
			name: "reply",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"outputs":{"text":"Hi there"}}`)
			},
			role:    transcript.RoleAgent,
			content: "Hi there",
		},
		{
			name: "missing outputs.text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"outputs":{"answer":"Hi"}}`)
			},
			role:    transcript.RoleError,
			content: chat.DefaultFallback,
		},
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, `{"outputs":{"text":"should not be shown"}}`)
			},
			role:    transcript.RoleError,
			content: chat.DefaultFallback,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			client, err := agentapi.New(srv.URL)
			require.NoError(t, err)

			store := transcript.NewStore()
			c := chat.New(store, client)
			require.True(t, c.Submit(context.Background(), "Hello"))

			msgs := store.Messages()
			require.Len(t, msgs, 2)
			require.Equal(t, transcript.Message{Role: transcript.RoleUser, Content: "Hello"}, msgs[0])
			require.Equal(t, tc.role, msgs[1].Role)
			require.Equal(t, tc.content, msgs[1].Content)
		})
	}
}

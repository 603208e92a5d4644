package mail_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karan123216/Restaurant-Management-System/internal/mail"
)

func TestPostmarkSender_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email", r.URL.Path)
		assert.Equal(t, "server-token", r.Header.Get("X-Postmark-Server-Token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ErrorCode":0,"Message":"OK","MessageID":"m-1","To":"guest@example.com"}`))
	}))
	defer srv.Close()

	sender := mail.NewPostmarkSender("server-token", "no-reply@restaurant.local").WithBaseURL(srv.URL)
	err := sender.Send(context.Background(), mail.Message{
		To:       "guest@example.com",
		Subject:  "Booking Confirmation",
		TextBody: "See you soon",
	})
	require.NoError(t, err)

	assert.Equal(t, "no-reply@restaurant.local", got["From"])
	assert.Equal(t, "guest@example.com", got["To"])
	assert.Equal(t, "Booking Confirmation", got["Subject"])
}

func TestPostmarkSender_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email request"}`))
	}))
	defer srv.Close()

	sender := mail.NewPostmarkSender("server-token", "no-reply@restaurant.local").WithBaseURL(srv.URL)
	err := sender.Send(context.Background(), mail.Message{To: "bad", Subject: "x"})
	require.Error(t, err)
}

func TestPostmarkSender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mail.NewPostmarkSender("t", "f").Send(ctx, mail.Message{To: "a@b.c"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, mail.LogSender{}.Send(context.Background(), mail.Message{To: "a@b.c"}))
}

type failingSender struct {
	calls int
}

func (f *failingSender) Send(context.Context, mail.Message) error {
	f.calls++
	return errors.New("smtp down")
}

func TestBreakerSender_OpensAfterRepeatedFailures(t *testing.T) {
	next := &failingSender{}
	sender := mail.NewBreakerSender(next)

	for i := 0; i < 5; i++ {
		err := sender.Send(context.Background(), mail.Message{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, mail.ErrUnavailable)
	}

	err := sender.Send(context.Background(), mail.Message{})
	assert.ErrorIs(t, err, mail.ErrUnavailable)
	assert.Equal(t, 5, next.calls)
}

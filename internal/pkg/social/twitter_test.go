package social

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestTwitterCreateTweet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/tweets", r.URL.Path)
		require.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"text":"hello"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1001","text":"hello"}}`))
	}))
	defer srv.Close()

	tweet, err := NewTwitterClient(srv.URL, time.Second).CreateTweet(context.Background(), "at", "hello", "")
	require.NoError(t, err)
	require.Equal(t, "1001", tweet.ID)
	require.Equal(t, "hello", tweet.Text)
}

func TestTwitterCreateReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "1001", req["reply"].(map[string]any)["in_reply_to_tweet_id"])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":"1002","text":"second"}}`))
	}))
	defer srv.Close()

	tweet, err := NewTwitterClient(srv.URL, time.Second).CreateTweet(context.Background(), "at", "second", "1001")
	require.NoError(t, err)
	require.Equal(t, "1002", tweet.ID)
}

func TestTwitterCreateTweetRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"duplicate content"}`))
	}))
	defer srv.Close()

	_, err := NewTwitterClient(srv.URL, time.Second).CreateTweet(context.Background(), "at", "x", "")
	var rej *PlatformRejectedError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, http.StatusForbidden, rej.Status)
}

func TestTwitterNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewTwitterClient(url, time.Second).CreateTweet(context.Background(), "at", "x", "")
	require.ErrorIs(t, err, ErrTransientNetwork)
}

func TestTwitterFollowersCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/users/me", r.URL.Path)
		require.Equal(t, "public_metrics", r.URL.Query().Get("user.fields"))
		_, _ = w.Write([]byte(`{"data":{"id":"7","public_metrics":{"followers_count":321,"following_count":5}}}`))
	}))
	defer srv.Close()

	n, err := NewTwitterClient(srv.URL, time.Second).FollowersCount(context.Background(), "at")
	require.NoError(t, err)
	require.EqualValues(t, 321, n)
}

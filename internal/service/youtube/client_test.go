package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShowPulse/internal/domain/models"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "Wednesday official trailer", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"items":[
				{"id":{"videoId":"vid1"}},
				{"id":{"videoId":"vid2"}}
			]}`))
		case "/videos":
			assert.Equal(t, "vid1,vid2", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(`{"items":[
				{"id":"vid1","statistics":{"viewCount":"50000000","likeCount":"1500000"}},
				{"id":"vid2","statistics":{"viewCount":"10000000","likeCount":"300000"}}
			]}`))
		case "/commentThreads":
			assert.Equal(t, "vid1", r.URL.Query().Get("videoId"))
			_ = json.NewEncoder(w).Encode(commentsResponse{Items: []commentThread{
				fakeComment("this looks absolutely amazing"),
				fakeComment("best show ever, so excited"),
			}})
		default:
			http.NotFound(w, r)
		}
	}))
}

func fakeComment(text string) commentThread {
	var ct commentThread
	ct.Snippet.TopLevelComment.Snippet.TextDisplay = text
	return ct
}

func TestFetchAggregates(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	c := New(srv.URL, "test-key", 5, 20, 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Wednesday")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.ProviderVideo, rec.Kind)

	v := rec.Video
	require.NotNil(t, v)
	assert.Equal(t, "Wednesday official trailer", v.Query)
	assert.Equal(t, 2, v.VideoCount)
	assert.Equal(t, int64(60000000), v.TotalViews)
	assert.Equal(t, int64(1800000), v.TotalLikes)
	assert.InDelta(t, 0.03, v.LikeRatio, 1e-9)
	assert.Greater(t, v.CommentSentiment, 0.0)
	assert.Greater(t, v.Score, 0.0)
	assert.LessOrEqual(t, v.Score, 100.0)
}

func TestFetchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 5, 20, 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Obscure Show")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchCommentsDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`{"items":[{"id":{"videoId":"vid1"}}]}`))
		case "/videos":
			_, _ = w.Write([]byte(`{"items":[{"id":"vid1","statistics":{"viewCount":"1000","likeCount":"50"}}]}`))
		case "/commentThreads":
			t.Error("comments should not be requested when maxComments is 0")
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 5, 0, 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Wednesday")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0.0, rec.Video.CommentSentiment)
}

func TestEngagementScoreBounds(t *testing.T) {
	assert.Equal(t, 0.0, engagementScore(0, 0, -1))
	assert.InDelta(t, 100.0, engagementScore(100000000, 0.05, 1), 0.1)

	low := engagementScore(1000, 0.01, 0)
	high := engagementScore(50000000, 0.03, 0.5)
	assert.Greater(t, high, low)
}

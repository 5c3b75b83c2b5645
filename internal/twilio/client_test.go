package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:    server.URL,
		AccountSID: "AC123",
		KeySID:     "SK123",
		KeySecret:  "secret",
		HTTPClient: server.Client(),
		CacheTTL:   time.Minute,
		CacheSize:  8,
	})
}

func TestListMessagesSendsFilterAndAuth(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		assert.Equal(t, "+15550001111", r.URL.Query().Get("To"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "SK123", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"sid":"SM1","from":"+15550002222","to":"+15550001111","body":"hi"}]}`))
	})

	messages, err := client.ListMessages(context.Background(), Filter{To: "+15550001111"})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "SM1", messages[0].SID)
	assert.Equal(t, "hi", messages[0].Body)
}

func TestSendMessagePostsForm(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001111", r.PostForm.Get("To"))
		assert.Equal(t, "+15550002222", r.PostForm.Get("From"))
		assert.Equal(t, "server down", r.PostForm.Get("Body"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM2","status":"queued"}`))
	})

	message, err := client.SendMessage(context.Background(), "+15550001111", "+15550002222", "server down")
	require.NoError(t, err)
	assert.Equal(t, "SM2", message.SID)
	assert.Equal(t, "queued", message.Status)
}

func TestGetCallNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetCall(context.Background(), "CAmissing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadCredentialsMapToUnauthorized(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListCalls(context.Background(), Filter{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIncomingPhoneNumbersAreCached(t *testing.T) {
	t.Parallel()

	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"incoming_phone_numbers":[{"phone_number":"+15550009999","friendly_name":"dispatch"}]}`))
	})

	first, err := client.ListIncomingPhoneNumbers(context.Background())
	require.NoError(t, err)
	second, err := client.ListIncomingPhoneNumbers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits)

	client.InvalidatePhoneNumbers()
	_, err = client.ListIncomingPhoneNumbers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestMediaListCachedPerMessage(t *testing.T) {
	t.Parallel()

	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages/SM1/Media.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"media_list":[{"sid":"ME1","content_type":"image/jpeg","uri":"/Media/ME1"}]}`))
	})

	first, err := client.ListMedia(context.Background(), "SM1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "image/jpeg", first[0].ContentType)

	_, err = client.ListMedia(context.Background(), "SM1")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

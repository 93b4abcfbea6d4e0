package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub()

	var got []interface{}
	require.NoError(t, hub.Subscribe(SessionsChannel, EventSession, func(payload interface{}) {
		got = append(got, payload)
	}))

	hub.Publish(SessionsChannel, EventSession, "one")
	// different event on the same channel must not reach the subscriber
	hub.Publish(SessionsChannel, EventSessionRemoved, "two")

	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0])
}

func TestPushClient_Trigger(t *testing.T) {
	var gotPath, gotKey string
	var gotBody pushEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("auth_key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewPushClient(srv.URL, "app1", "key1", "secret1")
	err := client.Trigger(SessionsChannel, EventSession, map[string]string{"id": "9"})
	require.NoError(t, err)

	assert.Equal(t, "/apps/app1/events", gotPath)
	assert.Equal(t, "key1", gotKey)
	assert.Equal(t, EventSession, gotBody.Name)
	assert.Equal(t, SessionsChannel, gotBody.Channel)
}

func TestPushClient_TriggerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewPushClient(srv.URL, "app1", "key1", "bad")
	err := client.Trigger(SessionsChannel, EventSession, nil)
	assert.Error(t, err)
}

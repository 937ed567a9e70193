package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaReturnsLatestWhenSubjectExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/subjects/member_events-member.created/versions/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":11,"version":2}`))
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL + "/")
	id, err := client.EnsureSchema(context.Background(), "member_events-member.created", memberCreatedSchema)
	require.NoError(t, err)
	require.Equal(t, 11, id)
}

func TestEnsureSchemaRegistersMissingSubject(t *testing.T) {
	var registered map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			require.Equal(t, "/subjects/workout_events-workout.scheduled/versions", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
			_, _ = w.Write([]byte(`{"id":5}`))
		}
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	id, err := client.EnsureSchema(context.Background(), "workout_events-workout.scheduled", workoutScheduledSchema)
	require.NoError(t, err)
	require.Equal(t, 5, id)
	require.Equal(t, "JSON", registered["schemaType"])
	require.Equal(t, workoutScheduledSchema, registered["schema"])
}

func TestEnsureSchemaDoesNotRegisterOnRegistryFailure(t *testing.T) {
	posts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	_, err := client.EnsureSchema(context.Background(), "member_events-member.deleted", memberDeletedSchema)
	require.ErrorContains(t, err, "boom")
	require.Zero(t, posts)
}

func TestEnsureSchemaReportsRejectedRegistration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		require.Equal(t, "application/vnd.schemaregistry.v1+json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error_code":409,"message":"incompatible schema"}`))
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	_, err := client.EnsureSchema(context.Background(), "member_events-member.updated", memberUpdatedSchema)
	require.ErrorContains(t, err, "409")
	require.ErrorContains(t, err, "incompatible schema")
	require.NotErrorIs(t, err, errSubjectNotFound)
}

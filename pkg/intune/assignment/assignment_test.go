package assignment_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intunerator/intunerator/pkg/graph"
	"github.com/intunerator/intunerator/pkg/graph/fake"
	"github.com/intunerator/intunerator/pkg/intune/assignment"
)

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("empty application id is an invalid argument", func(t *testing.T) {
		runtime := fake.NewRuntime(http.DefaultClient, "http://graph.invalid")

		assignments, err := assignment.NewAssignments(runtime).Get(ctx, "")

		assert.Nil(t, assignments)
		assert.True(t, errors.Is(err, graph.ErrInvalidArgument))
	})

	t.Run("returns the expanded assignments sub-collection as-is", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/deviceAppManagement/mobileApps/a1", r.URL.Path)
			assert.Equal(t, "categories,assignments", r.URL.Query().Get("$expand"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "a1",
				"displayName": "App1",
				"assignments": [
					{"target": {"@odata.type": "#microsoft.graph.groupAssignmentTarget", "groupId": "g1"}},
					{"target": {"@odata.type": "#microsoft.graph.groupAssignmentTarget", "groupId": "g2"}}
				]
			}`))
		}))
		defer server.Close()

		runtime := fake.NewRuntime(server.Client(), server.URL)

		assignments, err := assignment.NewAssignments(runtime).Get(ctx, "a1")

		assert.NoError(t, err)
		assert.Len(t, assignments, 2)
		assert.Equal(t, "g1", assignments[0].Target.GroupID)
		assert.Equal(t, "g2", assignments[1].Target.GroupID)
	})

	t.Run("application without assignments yields an empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "a1", "displayName": "App1", "assignments": []}`))
		}))
		defer server.Close()

		runtime := fake.NewRuntime(server.Client(), server.URL)

		assignments, err := assignment.NewAssignments(runtime).Get(ctx, "a1")

		assert.NoError(t, err)
		assert.Empty(t, assignments)
	})

	t.Run("propagates api failures with status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"code": "ResourceNotFound"}}`))
		}))
		defer server.Close()

		runtime := fake.NewRuntime(server.Client(), server.URL)

		assignments, err := assignment.NewAssignments(runtime).Get(ctx, "a1")

		assert.Nil(t, assignments)

		var apiErr *graph.Error
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "ResourceNotFound")
	})
}

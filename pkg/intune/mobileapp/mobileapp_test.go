package mobileapp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intunerator/intunerator/pkg/graph/fake"
	"github.com/intunerator/intunerator/pkg/intune"
	"github.com/intunerator/intunerator/pkg/intune/mobileapp"
)

func TestFilter(t *testing.T) {
	t.Run("drops vendor-managed applications", func(t *testing.T) {
		apps := []intune.Application{
			{ID: "a1", DisplayName: "App1", ODataType: "#microsoft.graph.iosStoreApp"},
			{ID: "a2", DisplayName: "Managed App", ODataType: "#microsoft.graph.managedIOSStoreApp"},
			{ID: "a3", DisplayName: "App3", ODataType: "#microsoft.graph.win32LobApp"},
			{ID: "a4", DisplayName: "Managed Android", ODataType: "#microsoft.graph.managedAndroidStoreApp"},
		}

		filtered := mobileapp.Filter(apps)

		assert.Len(t, filtered, 2)
		assert.Equal(t, "App1", filtered[0].DisplayName)
		assert.Equal(t, "App3", filtered[1].DisplayName)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, mobileapp.Filter(nil))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("lists and filters applications from the device app management surface", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/deviceAppManagement/mobileApps", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"value": [
					{"id": "a1", "displayName": "App1", "@odata.type": "#microsoft.graph.iosStoreApp"},
					{"id": "a2", "displayName": "Managed", "@odata.type": "#microsoft.graph.managedAndroidStoreApp"}
				]
			}`))
		}))
		defer server.Close()

		runtime := fake.NewRuntime(server.Client(), server.URL)

		apps, err := mobileapp.NewMobileApps(runtime).List(ctx)

		assert.NoError(t, err)
		assert.Len(t, apps, 1)
		assert.Equal(t, intune.Application{
			ID:          "a1",
			DisplayName: "App1",
			ODataType:   "#microsoft.graph.iosStoreApp",
		}, apps[0])
	})

	t.Run("propagates api failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		runtime := fake.NewRuntime(server.Client(), server.URL)

		apps, err := mobileapp.NewMobileApps(runtime).List(ctx)

		assert.Error(t, err)
		assert.Nil(t, apps)
	})
}

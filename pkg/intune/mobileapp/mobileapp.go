package mobileapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/intunerator/intunerator/pkg/graph"
	"github.com/intunerator/intunerator/pkg/intune"
)

// managedTypeMarker appears in the @odata.type of vendor-managed applications
// (e.g. #microsoft.graph.managedIOSStoreApp). These are owned by the platform
// rather than deployed by administrators and are excluded from reporting.
const managedTypeMarker = "managed"

type MobileApps interface {
	List(ctx context.Context) ([]intune.Application, error)
}

type mobileApps struct {
	graph.Runtime
}

func NewMobileApps(runtime graph.Runtime) MobileApps {
	return mobileApps{Runtime: runtime}
}

func (m mobileApps) List(ctx context.Context) ([]intune.Application, error) {
	apps, err := graph.GetList[intune.Application](ctx, m.Rest(), "/deviceAppManagement/mobileApps", nil)
	if err != nil {
		return nil, fmt.Errorf("listing mobile applications: %w", err)
	}

	return Filter(apps), nil
}

// Filter drops vendor-managed applications from the working set.
func Filter(apps []intune.Application) []intune.Application {
	filtered := make([]intune.Application, 0, len(apps))

	for _, app := range apps {
		if strings.Contains(app.ODataType, managedTypeMarker) {
			continue
		}
		filtered = append(filtered, app)
	}

	return filtered
}

package assignment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/intunerator/intunerator/pkg/graph"
	"github.com/intunerator/intunerator/pkg/intune"
)

type Assignments interface {
	Get(ctx context.Context, appID string) ([]intune.Assignment, error)
}

type assignments struct {
	graph.Runtime
}

func NewAssignments(runtime graph.Runtime) Assignments {
	return assignments{Runtime: runtime}
}

// Get returns the assignment targets for the given application, in the order
// the API returns them. An application without assignments yields an empty
// list, not an error.
func (a assignments) Get(ctx context.Context, appID string) ([]intune.Assignment, error) {
	if len(appID) == 0 {
		return nil, fmt.Errorf("%w: application id must be non-empty", graph.ErrInvalidArgument)
	}

	query := url.Values{}
	query.Set("$expand", "categories,assignments")

	var app struct {
		intune.Application
		Assignments []intune.Assignment `json:"assignments"`
	}

	if err := a.Rest().Get(ctx, "/deviceAppManagement/mobileApps/"+appID, query, &app); err != nil {
		return nil, fmt.Errorf("fetching assignments for application '%s': %w", appID, err)
	}

	return app.Assignments, nil
}

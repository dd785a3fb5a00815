package report

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/intunerator/intunerator/pkg/graph"
	"github.com/intunerator/intunerator/pkg/intune"
)

// Row is one line of the assignment report: an application and the display
// names of every group its deployment targets, joined in assignment order.
// An application deployed to nobody has an empty GroupNames.
type Row struct {
	ApplicationName string
	GroupNames      string
}

type AssignmentGetter interface {
	Get(ctx context.Context, appID string) ([]intune.Assignment, error)
}

type GroupNameResolver interface {
	GetDisplayName(ctx context.Context, id string) (string, error)
}

type Builder struct {
	assignments AssignmentGetter
	groups      GroupNameResolver
	parallelism int
}

// NewBuilder returns a Builder resolving assignments and group names through
// the given clients. parallelism bounds concurrent per-application resolution;
// values below 1 behave as 1 (strictly sequential).
func NewBuilder(assignments AssignmentGetter, groups GroupNameResolver, parallelism int) Builder {
	if parallelism < 1 {
		parallelism = 1
	}

	return Builder{
		assignments: assignments,
		groups:      groups,
		parallelism: parallelism,
	}
}

// Build produces one row per application, in input order regardless of
// parallelism. The first failure aborts the build; no partial result is
// returned.
func (b Builder) Build(ctx context.Context, apps []intune.Application) ([]Row, error) {
	rows := make([]Row, len(apps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)

	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			row, err := b.buildRow(ctx, app)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}

func (b Builder) buildRow(ctx context.Context, app intune.Application) (Row, error) {
	assignments, err := b.assignments.Get(ctx, app.ID)
	if err != nil {
		return Row{}, fmt.Errorf("building row for application '%s': %w", app.DisplayName, err)
	}

	names := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		if len(assignment.Target.GroupID) == 0 {
			continue
		}

		name, err := b.groups.GetDisplayName(ctx, assignment.Target.GroupID)
		if err != nil {
			return Row{}, fmt.Errorf("resolving group '%s' for application '%s': %w",
				assignment.Target.GroupID, app.DisplayName, err)
		}
		names = append(names, name)
	}

	return Row{
		ApplicationName: app.DisplayName,
		GroupNames:      strings.Join(names, ", "),
	}, nil
}

// FindAppsAssignedToGroup returns the display names of the applications whose
// assignments target the given group id, in input application order. Matching
// is exact string equality on the group id.
func (b Builder) FindAppsAssignedToGroup(ctx context.Context, apps []intune.Application, groupID string) ([]string, error) {
	if len(groupID) == 0 {
		return nil, fmt.Errorf("%w: group id must be non-empty", graph.ErrInvalidArgument)
	}

	matches := make([]string, 0)

	for _, app := range apps {
		assignments, err := b.assignments.Get(ctx, app.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching assignments for application '%s': %w", app.DisplayName, err)
		}

		for _, assignment := range assignments {
			if assignment.Target.GroupID == groupID {
				matches = append(matches, app.DisplayName)
				break
			}
		}
	}

	return matches, nil
}

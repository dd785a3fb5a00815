package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cache "github.com/Code-Hex/go-generics-cache"
	msgraph "github.com/nais/msgraph.go/v1.0"

	"github.com/intunerator/intunerator/pkg/graph"
)

var (
	// ErrGroupNotFound is returned when a display name lookup yields no match.
	ErrGroupNotFound = errors.New("group not found")

	// ErrAmbiguousGroupName is returned when a display name lookup yields more
	// than one match. The Graph API does not guarantee display name
	// uniqueness, so the caller must disambiguate by object id.
	ErrAmbiguousGroupName = errors.New("group display name matches more than one group")
)

// Assignment group ids repeat heavily across applications within a run.
var displayNameCache = cache.New[string, string]()

type Groups interface {
	GetByID(ctx context.Context, id string) (msgraph.Group, error)
	GetByName(ctx context.Context, name string) (msgraph.Group, error)
	GetDisplayName(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]msgraph.Group, error)
	Members(ctx context.Context, id string) ([]msgraph.DirectoryObject, error)
}

type groups struct {
	graph.Runtime
}

func NewGroups(runtime graph.Runtime) Groups {
	return groups{Runtime: runtime}
}

func (g groups) GetByID(ctx context.Context, id string) (msgraph.Group, error) {
	if len(id) == 0 {
		return msgraph.Group{}, fmt.Errorf("%w: group id must be non-empty", graph.ErrInvalidArgument)
	}

	grp, err := g.GraphClient().Groups().ID(id).Request().Get(ctx)
	if err != nil {
		return msgraph.Group{}, fmt.Errorf("fetching group '%s': %w", id, err)
	}

	return *grp, nil
}

// GetByName looks up a group by exact display name match. Exactly zero or one
// match is accepted.
func (g groups) GetByName(ctx context.Context, name string) (msgraph.Group, error) {
	if len(name) == 0 {
		return msgraph.Group{}, fmt.Errorf("%w: group display name must be non-empty", graph.ErrInvalidArgument)
	}

	r := g.GraphClient().Groups().Request()
	r.Filter(FilterByDisplayName(name))

	matches, err := r.GetN(ctx, g.MaxNumberOfPagesToFetch())
	if err != nil {
		return msgraph.Group{}, fmt.Errorf("looking up group by display name '%s': %w", name, err)
	}

	switch len(matches) {
	case 0:
		return msgraph.Group{}, fmt.Errorf("%w: '%s'", ErrGroupNotFound, name)
	case 1:
		// Callers dereference the object id.
		if matches[0].ID == nil {
			return msgraph.Group{}, fmt.Errorf("group '%s' has no object id", name)
		}
		return matches[0], nil
	default:
		return msgraph.Group{}, fmt.Errorf("%w: '%s' (%d matches)", ErrAmbiguousGroupName, name, len(matches))
	}
}

// GetDisplayName resolves a group id to its display name, unaltered.
func (g groups) GetDisplayName(ctx context.Context, id string) (string, error) {
	if name, found := displayNameCache.Get(id); found {
		return name, nil
	}

	grp, err := g.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if grp.DisplayName == nil {
		return "", nil
	}

	name := *grp.DisplayName
	displayNameCache.Set(id, name)

	return name, nil
}

func (g groups) List(ctx context.Context) ([]msgraph.Group, error) {
	all, err := g.GraphClient().Groups().Request().GetN(ctx, g.MaxNumberOfPagesToFetch())
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	return all, nil
}

func (g groups) Members(ctx context.Context, id string) ([]msgraph.DirectoryObject, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("%w: group id must be non-empty", graph.ErrInvalidArgument)
	}

	members, err := g.GraphClient().Groups().ID(id).Members().Request().GetN(ctx, g.MaxNumberOfPagesToFetch())
	if err != nil {
		return nil, fmt.Errorf("fetching members for group '%s': %w", id, err)
	}

	return members, nil
}

// FilterByDisplayName builds an OData filter for an exact display name match.
// Single quotes in the name are doubled per OData string literal escaping.
func FilterByDisplayName(name string) string {
	return fmt.Sprintf("displayName eq '%s'", strings.ReplaceAll(name, "'", "''"))
}

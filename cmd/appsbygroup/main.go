package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/intunerator/intunerator/pkg/config"
	"github.com/intunerator/intunerator/pkg/graph"
	"github.com/intunerator/intunerator/pkg/graph/client"
	"github.com/intunerator/intunerator/pkg/group"
	"github.com/intunerator/intunerator/pkg/intune/assignment"
	"github.com/intunerator/intunerator/pkg/intune/mobileapp"
	"github.com/intunerator/intunerator/pkg/logger"
	"github.com/intunerator/intunerator/pkg/report"
)

func main() {
	err := run()

	if err != nil {
		log.Errorf("Run loop errored: %+v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger.Setup(cfg.Debug)

	cfg.Print([]string{
		config.AzureClientSecret,
	})

	err = cfg.Validate([]string{
		config.AzureClientId,
		config.AzureClientSecret,
		config.AzureTenantId,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()

	runtime, err := client.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating graph client: %w", err)
	}

	groupName := cfg.Report.GroupName
	if len(groupName) == 0 {
		groupName, err = promptGroupName()
		if err != nil {
			return err
		}
	}

	groups := group.NewGroups(runtime)

	grp, err := groups.GetByName(ctx, groupName)
	if err != nil {
		return err
	}

	if cfg.Report.IncludeMembers {
		members, err := groups.Members(ctx, *grp.ID)
		if err != nil {
			return err
		}
		log.Infof("group '%s' has %d members", groupName, len(members))
	}

	apps, err := mobileapp.NewMobileApps(runtime).List(ctx)
	if err != nil {
		return err
	}
	log.Infof("found %d mobile applications", len(apps))

	builder := report.NewBuilder(
		assignment.NewAssignments(runtime),
		groups,
		cfg.Report.Parallelism,
	)

	names, err := builder.FindAppsAssignedToGroup(ctx, apps, *grp.ID)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Printf("no applications assigned to group '%s'\n", groupName)
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func promptGroupName() (string, error) {
	fmt.Print("Group display name: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading group name: %w", err)
	}

	name := strings.TrimSpace(line)
	if len(name) == 0 {
		return "", fmt.Errorf("%w: group name must be non-empty", graph.ErrInvalidArgument)
	}

	return name, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/intunerator/intunerator/pkg/config"
	"github.com/intunerator/intunerator/pkg/graph/client"
	"github.com/intunerator/intunerator/pkg/group"
	"github.com/intunerator/intunerator/pkg/intune/assignment"
	"github.com/intunerator/intunerator/pkg/intune/mobileapp"
	"github.com/intunerator/intunerator/pkg/logger"
	"github.com/intunerator/intunerator/pkg/report"
)

// The report is written to the invocation directory, named after the command.
const reportFileName = "assignmentreport.csv"

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

	apps, err := mobileapp.NewMobileApps(runtime).List(ctx)
	if err != nil {
		return err
	}
	log.Infof("found %d mobile applications", len(apps))

	builder := report.NewBuilder(
		assignment.NewAssignments(runtime),
		group.NewGroups(runtime),
		cfg.Report.Parallelism,
	)

	rows, err := builder.Build(ctx, apps)
	if err != nil {
		return err
	}

	if err := report.WriteCSV(reportFileName, rows); err != nil {
		return err
	}

	log.Infof("wrote %d rows to %s", len(rows), reportFileName)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	var (
		format string
		output string
		fromDB bool
	)
	cmd := &cobra.Command{
		Use:   "report <country>",
		Short: "Write one country's indicators as text or JSON",
		Long:  "Countries: " + strings.Join(Countries, ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			country, ok := lookupCountry(args[0])
			if !ok {
				return fmt.Errorf("unknown country %q (choose one of %s)", args[0], strings.Join(Countries, ", "))
			}
			if _, err := normalizeReportFormat(output, format); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var payload reportPayload
			if fromDB {
				db, err := openDB(ctx, a.cfg.DBURL)
				if err != nil {
					return err
				}
				defer db.Close()
				records, generatedAt, err := loadLatestSnapshot(ctx, db, country)
				if err != nil {
					return err
				}
				payload = buildReportPayload(country, "snapshot", records, generatedAt)
			} else {
				records, err := a.client().FetchCountry(ctx, country)
				if err != nil {
					a.logger.Error("indicator fetch failed", "country", country, "error", err)
					if text, ok := isAccessRestricted(err); ok {
						return errors.New(strings.TrimSpace(text))
					}
					return err
				}
				payload = buildReportPayload(country, "api", records, a.now())
			}
			return writeReport(cmd.OutOrStdout(), output, format, payload)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: text or json (default from --output extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this path instead of stdout")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "render the latest stored snapshot instead of calling the API")
	return cmd
}

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch every country and store a snapshot in Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			db, err := openDB(ctx, a.cfg.DBURL)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := ensureSchema(ctx, db); err != nil {
				return err
			}

			snapshots, skipped, err := fetchAllCountries(ctx, a.client(), a.logger)
			if err != nil {
				return err
			}
			snapshotID, err := insertSnapshot(ctx, db, a.now(), snapshots)
			if err != nil {
				return err
			}

			records := 0
			for _, snapshot := range snapshots {
				records += len(snapshot.Records)
			}
			a.logger.Info("snapshot stored", "snapshot_id", snapshotID, "countries", len(snapshots), "records", records)
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d indicators for %d countries to Postgres snapshot %d.\n", records, len(snapshots), snapshotID)
			if len(skipped) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped (no access): %s\n", strings.Join(skipped, ", "))
			}
			return nil
		},
	}
}

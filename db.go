package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type countrySnapshot struct {
	Country string
	Records []Indicator
}

type indicatorRow struct {
	Country         string
	CategoryGroup   string
	Category        string
	LatestValue     float64
	PreviousValue   float64
	Unit            string
	LatestValueDate sql.NullTime
	SourceURL       string
	PercentChange   sql.NullFloat64
	Trend           string
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New(envDSN + ", " + envDatabaseURL + ", or --db-url is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS country_indicators;`,
		`CREATE TABLE IF NOT EXISTS country_indicators.snapshots (
			id BIGSERIAL PRIMARY KEY,
			generated_at TIMESTAMPTZ NOT NULL,
			country_count INT NOT NULL,
			record_count INT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS country_indicators.indicators (
			id BIGSERIAL PRIMARY KEY,
			snapshot_id BIGINT NOT NULL REFERENCES country_indicators.snapshots(id) ON DELETE CASCADE,
			country TEXT NOT NULL,
			category_group TEXT NOT NULL,
			category TEXT NOT NULL,
			latest_value DOUBLE PRECISION NOT NULL,
			previous_value DOUBLE PRECISION NOT NULL,
			unit TEXT NOT NULL,
			latest_value_date TIMESTAMP,
			source_url TEXT NOT NULL,
			percent_change DOUBLE PRECISION,
			trend TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS indicators_snapshot_country_idx ON country_indicators.indicators(snapshot_id, country);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func buildIndicatorRows(snapshot countrySnapshot) []indicatorRow {
	rows := make([]indicatorRow, 0, len(snapshot.Records))
	for _, record := range snapshot.Records {
		row := indicatorRow{
			Country:       snapshot.Country,
			CategoryGroup: record.CategoryGroup,
			Category:      record.Category,
			LatestValue:   record.LatestValue,
			PreviousValue: record.PreviousValue,
			Unit:          record.Unit,
			SourceURL:     record.SourceURL,
			Trend:         trendOf(record),
		}
		if parsed, ok := parseDateOptional(record.LatestValueDate); ok {
			row.LatestValueDate = sql.NullTime{Time: parsed, Valid: true}
		}
		if change := percentChange(record); !math.IsNaN(change) && !math.IsInf(change, 0) {
			row.PercentChange = sql.NullFloat64{Float64: change, Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

func insertSnapshot(ctx context.Context, db *sql.DB, generatedAt time.Time, snapshots []countrySnapshot) (snapshotID int64, err error) {
	recordCount := 0
	for _, snapshot := range snapshots {
		recordCount += len(snapshot.Records)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO country_indicators.snapshots (generated_at, country_count, record_count)
		VALUES ($1,$2,$3)
		RETURNING id;
	`, generatedAt, len(snapshots), recordCount)
	if err = row.Scan(&snapshotID); err != nil {
		return 0, err
	}

	insertStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO country_indicators.indicators (
			snapshot_id,
			country,
			category_group,
			category,
			latest_value,
			previous_value,
			unit,
			latest_value_date,
			source_url,
			percent_change,
			trend
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);
	`)
	if err != nil {
		return 0, err
	}
	defer insertStmt.Close()

	for _, snapshot := range snapshots {
		for _, r := range buildIndicatorRows(snapshot) {
			if _, err = insertStmt.ExecContext(ctx,
				snapshotID,
				r.Country,
				r.CategoryGroup,
				r.Category,
				r.LatestValue,
				r.PreviousValue,
				r.Unit,
				r.LatestValueDate,
				r.SourceURL,
				r.PercentChange,
				r.Trend,
			); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return snapshotID, nil
}

// loadLatestSnapshot returns the country's records from the newest snapshot
// that contains it.
func loadLatestSnapshot(ctx context.Context, db *sql.DB, country string) ([]Indicator, time.Time, error) {
	var (
		snapshotID  int64
		generatedAt time.Time
	)
	row := db.QueryRowContext(ctx, `
		SELECT s.id, s.generated_at
		FROM country_indicators.snapshots s
		WHERE EXISTS (
			SELECT 1 FROM country_indicators.indicators i
			WHERE i.snapshot_id = s.id AND i.country = $1
		)
		ORDER BY s.generated_at DESC
		LIMIT 1;
	`, country)
	if err := row.Scan(&snapshotID, &generatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, fmt.Errorf("no stored snapshot for %s", country)
		}
		return nil, time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT category_group, category, latest_value, previous_value, unit,
			latest_value_date, source_url
		FROM country_indicators.indicators
		WHERE snapshot_id = $1 AND country = $2
		ORDER BY id ASC;
	`, snapshotID, country)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	records := make([]Indicator, 0)
	for rows.Next() {
		var (
			record     Indicator
			latestDate sql.NullTime
		)
		if err := rows.Scan(
			&record.CategoryGroup,
			&record.Category,
			&record.LatestValue,
			&record.PreviousValue,
			&record.Unit,
			&latestDate,
			&record.SourceURL,
		); err != nil {
			return nil, time.Time{}, err
		}
		record.Country = country
		record.LatestValueDate = formatNullableDate(latestDate)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return records, generatedAt, nil
}

func formatNullableDate(value sql.NullTime) string {
	if !value.Valid {
		return ""
	}
	return value.Time.Format("2006-01-02T15:04:05")
}

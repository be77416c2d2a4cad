package main

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// fetchAllCountries fetches every country concurrently. Countries the key's
// tier cannot see are skipped; any other failure cancels the rest.
func fetchAllCountries(ctx context.Context, fetcher indicatorFetcher, logger *slog.Logger) ([]countrySnapshot, []string, error) {
	results := make([]*countrySnapshot, len(Countries))
	restricted := make([]bool, len(Countries))

	g, gctx := errgroup.WithContext(ctx)
	for i, country := range Countries {
		i, country := i, country
		g.Go(func() error {
			records, err := fetcher.FetchCountry(gctx, country)
			if err != nil {
				if _, ok := isAccessRestricted(err); ok {
					logger.Warn("skipping restricted country", "country", country)
					restricted[i] = true
					return nil
				}
				return err
			}
			results[i] = &countrySnapshot{Country: country, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	snapshots := make([]countrySnapshot, 0, len(Countries))
	skipped := make([]string, 0)
	for i, country := range Countries {
		if restricted[i] {
			skipped = append(skipped, country)
			continue
		}
		snapshots = append(snapshots, *results[i])
	}
	return snapshots, skipped, nil
}

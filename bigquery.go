package nezamcrawler

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/compute/metadata"
)

// bigQueryDoctor is a DoctorRecord row stamped with its scrape time.
type bigQueryDoctor struct {
	DoctorRecord
	ScrapedAt time.Time `bigquery:"scraped_at"`
}

type bigQuerySink struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

// newBigQuerySink uses BIGQUERY_PROJECT_ID, or the project of the GCE
// instance the crawler runs on.
func (app *Crawler) newBigQuerySink(ctx context.Context) (*bigQuerySink, error) {
	projectID := app.Config.EnvString("BIGQUERY_PROJECT_ID")
	if projectID == "" {
		var err error
		projectID, err = metadata.ProjectID()
		if err != nil {
			return nil, fmt.Errorf("failed to get project ID: %w", err)
		}
	}

	client, err := bigquery.NewClient(ctx, projectID, app.gcpClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	dataset := app.Config.GetString("BIGQUERY_DATASET")
	table := app.Config.EnvString("BIGQUERY_TABLE", doctorsCollection)
	return &bigQuerySink{
		client:   client,
		inserter: client.Dataset(dataset).Table(table).Inserter(),
	}, nil
}

func (s *bigQuerySink) Insert(ctx context.Context, records []DoctorRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]*bigQueryDoctor, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQueryDoctor{DoctorRecord: record, ScrapedAt: now})
	}
	if err := s.inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert doctors: %w", err)
	}
	return nil
}

func (s *bigQuerySink) Close() error {
	return s.client.Close()
}

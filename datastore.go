package nezamcrawler

import (
	"context"
	"fmt"

	"cloud.google.com/go/datastore"
)

const (
	doctorKind = "Doctor"
	runKind    = "Run"

	// Datastore rejects more than 500 entities per PutMulti.
	datastoreBatchSize = 500
)

type datastoreStore struct {
	client *datastore.Client
}

func (app *Crawler) newDatastoreStore(ctx context.Context) (*datastoreStore, error) {
	client, err := datastore.NewClient(ctx, app.Config.EnvString("DATASTORE_PROJECT_ID"), app.gcpClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Datastore client: %w", err)
	}
	return &datastoreStore{client: client}, nil
}

// SaveDoctors puts every record under a key named by its Nezam id.
func (s *datastoreStore) SaveDoctors(ctx context.Context, records []DoctorRecord) error {
	for start := 0; start < len(records); start += datastoreBatchSize {
		end := min(start+datastoreBatchSize, len(records))
		batch := records[start:end]

		keys := make([]*datastore.Key, 0, len(batch))
		entities := make([]*DoctorRecord, 0, len(batch))
		for i := range batch {
			keys = append(keys, datastore.NameKey(doctorKind, batch[i].Nezam, nil))
			entities = append(entities, &batch[i])
		}
		if _, err := s.client.PutMulti(ctx, keys, entities); err != nil {
			return fmt.Errorf("failed to put doctors %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (s *datastoreStore) SaveRun(ctx context.Context, run RunSummary) error {
	_, err := s.client.Put(ctx, datastore.IncompleteKey(runKind, nil), &run)
	return err
}

func (s *datastoreStore) Close(ctx context.Context) error {
	return s.client.Close()
}

package nezamcrawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	doctorsCollection = "doctors"
	runsCollection    = "runs"
)

// RecordStore persists doctors keyed by Nezam id.
type RecordStore interface {
	SaveDoctors(ctx context.Context, records []DoctorRecord) error
	Close(ctx context.Context) error
}

// RunSummary describes one finished scrape.
type RunSummary struct {
	Province  string    `json:"province" bson:"province"`
	Specialty string    `json:"specialty" bson:"specialty"`
	Doctors   int       `json:"doctors" bson:"doctors"`
	StartedAt time.Time `json:"started_at" bson:"started_at"`
	EndedAt   time.Time `json:"ended_at" bson:"ended_at"`
}

// openStore picks the store named by DB_DRIVER; empty means none.
func (app *Crawler) openStore(ctx context.Context) (RecordStore, error) {
	switch driver := strings.ToLower(app.Config.EnvString("DB_DRIVER")); driver {
	case "":
		return nil, nil
	case "mongo", "mongodb":
		return app.newMongoStore(ctx)
	case "datastore":
		return app.newDatastoreStore(ctx)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}
}

// Persist saves records to the configured store and warehouse. Without
// either it does nothing.
func (app *Crawler) Persist(ctx context.Context, records []DoctorRecord) error {
	var errs []error
	if app.store != nil {
		if err := app.store.SaveDoctors(ctx, records); err != nil {
			errs = append(errs, err)
		} else {
			app.Logger.Info("Saved %d doctors to store", len(records))
		}
	}
	if app.warehouse != nil {
		if err := app.warehouse.Insert(ctx, records); err != nil {
			errs = append(errs, err)
		} else {
			app.Logger.Info("Inserted %d doctors into BigQuery", len(records))
		}
	}
	return errors.Join(errs...)
}

type mongoStore struct {
	client   *mongo.Client
	database string
}

func (app *Crawler) newMongoStore(ctx context.Context) (*mongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	databaseURL := fmt.Sprintf("mongodb://%s:%s@%s:%s",
		app.Config.Env("DB_USERNAME"),
		app.Config.Env("DB_PASSWORD"),
		app.Config.Env("DB_HOST"),
		app.Config.Env("DB_PORT", "27017"),
	)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Check if the connection is established
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &mongoStore{client: client, database: app.Config.EnvString("DB_DATABASE", app.Name)}
	if err := store.ensureUniqueIndex(ctx); err != nil {
		app.Logger.Error("Could not create index: %v", err)
	}
	return store, nil
}

func (s *mongoStore) collection(name string) *mongo.Collection {
	return s.client.Database(s.database).Collection(name)
}

// ensureUniqueIndex ensures that the "nezam" field in the doctors collection has a unique index.
func (s *mongoStore) ensureUniqueIndex(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"nezam": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := s.collection(doctorsCollection).Indexes().CreateOne(ctx, indexModel)
	return err
}

// SaveDoctors upserts every record by its Nezam id.
func (s *mongoStore) SaveDoctors(ctx context.Context, records []DoctorRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "nezam", Value: record.Nezam}}).
			SetReplacement(record).
			SetUpsert(true))
	}

	_, err := s.collection(doctorsCollection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("could not save doctors: %w", err)
	}
	return nil
}

// SaveRun records a finished scrape in the runs collection.
func (s *mongoStore) SaveRun(ctx context.Context, run RunSummary) error {
	_, err := s.collection(runsCollection).InsertOne(ctx, run)
	return err
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// runRecorder is implemented by stores that keep a history of scrapes.
type runRecorder interface {
	SaveRun(ctx context.Context, run RunSummary) error
}

// RecordRun stores a summary of the run when the store keeps one.
func (app *Crawler) RecordRun(ctx context.Context, run RunSummary) error {
	recorder, ok := app.store.(runRecorder)
	if !ok {
		return nil
	}
	return recorder.SaveRun(ctx, run)
}

package nezamcrawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/temoto/robotstxt"
)

const (
	DefaultSiteName = "irimc"
	DefaultBaseUrl  = "https://membersearch.irimc.org/"
	directoryPath   = "directory"
)

// Progress is reported once per city.
type Progress struct {
	City    string
	Index   int // 1-based position of City
	Total   int
	Records int // records collected so far in the run
	Skipped bool
}

// Crawler drives one browser session over the member directory.
type Crawler struct {
	Config  *configService
	Name    string
	BaseUrl string
	Logger  *defaultLogger

	engine     *Engine
	session    Session
	fetcher    DocumentFetcher
	store      RecordStore
	warehouse  *bigQuerySink
	robotsData *robotstxt.RobotsData
	isLocalEnv bool
	skipSinks  bool
	onProgress func(Progress)
	startTime  time.Time
}

// NewCrawler builds a crawler from .env / environment configuration,
// overridden by the given engine.
func NewCrawler(engines ...Engine) *Crawler {
	config := newConfig()

	defaultEngine := getDefaultEngine()
	fromConfig := engineFromConfig(config)
	overrideEngineDefaults(&defaultEngine, &fromConfig)
	if len(engines) > 0 {
		eng := engines[0]
		overrideEngineDefaults(&defaultEngine, &eng)
	}

	crawler := &Crawler{
		Name:       config.EnvString("NEZAM_SITE_NAME", DefaultSiteName),
		engine:     &defaultEngine,
		Config:     config,
		isLocalEnv: config.GetString("APP_ENV") == "local",
	}

	logDir := defaultEngine.LogDir
	if defaultEngine.DisableLogFile {
		logDir = ""
	}
	crawler.Logger = newDefaultLogger(crawler.Name, logDir)

	baseUrl, err := normalizeBaseUrl(config.EnvString("NEZAM_BASE_URL", DefaultBaseUrl))
	if err != nil {
		crawler.Logger.Error("%v, falling back to %s", err, DefaultBaseUrl)
		baseUrl = DefaultBaseUrl
	}
	crawler.BaseUrl = baseUrl
	crawler.fetcher = crawler.newStaticFetcher()
	return crawler
}

// SetBaseUrl points the crawler at another deployment of the directory.
func (app *Crawler) SetBaseUrl(baseUrl string) *Crawler {
	normalized, err := normalizeBaseUrl(baseUrl)
	if err != nil {
		app.Logger.Error("%v", err)
		return app
	}
	app.BaseUrl = normalized
	if f, ok := app.fetcher.(*staticFetcher); ok {
		f.referer = normalized
	}
	return app
}

// SetSession installs an already open browser session. Open then keeps it
// instead of launching a browser.
func (app *Crawler) SetSession(session Session) *Crawler {
	app.session = session
	return app
}

func (app *Crawler) SetFetcher(fetcher DocumentFetcher) *Crawler {
	app.fetcher = fetcher
	return app
}

func (app *Crawler) SetStore(store RecordStore) *Crawler {
	app.store = store
	return app
}

// SetLogOutput sends log lines to w only.
func (app *Crawler) SetLogOutput(w io.Writer) *Crawler {
	app.Logger.setOutput(w)
	return app
}

// SkipSinks keeps Open from connecting the configured store and warehouse.
func (app *Crawler) SkipSinks() *Crawler {
	app.skipSinks = true
	return app
}

func (app *Crawler) OnProgress(fn func(Progress)) *Crawler {
	app.onProgress = fn
	return app
}

// DirectoryUrl is the root page listing the provinces.
func (app *Crawler) DirectoryUrl() string {
	return app.GetFullUrl(directoryPath)
}

// Open acquires the browser session and the configured sinks.
func (app *Crawler) Open(ctx context.Context) error {
	app.startTime = time.Now()
	app.Logger.Info("Crawler Started! 🚀")

	if project := app.Config.EnvString("GCP_LOGGING_PROJECT"); project != "" && app.Logger.cloud == nil {
		if err := app.Logger.mirrorToCloud(ctx, project, app.Config.EnvString("GCP_CREDENTIALS_PATH")); err != nil {
			app.Logger.Error("Cloud logging disabled: %v", err)
		}
	}

	if err := app.bootstrap(); err != nil {
		return err
	}

	if app.store == nil && !app.skipSinks {
		store, err := app.openStore(ctx)
		if err != nil {
			return err
		}
		app.store = store
	}
	if app.warehouse == nil && !app.skipSinks && app.Config.IsSet("BIGQUERY_DATASET") {
		warehouse, err := app.newBigQuerySink(ctx)
		if err != nil {
			return err
		}
		app.warehouse = warehouse
	}

	if app.session == nil {
		session, err := app.openSession(ctx)
		if err != nil {
			return fmt.Errorf("failed to open %s session: %w", app.engine.Adapter, err)
		}
		app.session = session
	}
	return nil
}

// Close releases the browser session and every sink. It is safe to call
// more than once.
func (app *Crawler) Close() error {
	var errs []error
	if app.session != nil {
		errs = append(errs, app.session.Close())
		app.session = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if app.store != nil {
		errs = append(errs, app.store.Close(ctx))
		app.store = nil
	}
	if app.warehouse != nil {
		errs = append(errs, app.warehouse.Close())
		app.warehouse = nil
	}

	if !app.startTime.IsZero() {
		app.Logger.Info("Crawler stopped in ⚡ %v", time.Since(app.startTime))
	}
	errs = append(errs, app.Logger.Close())
	return errors.Join(errs...)
}

// Handle opens the crawler, runs fn and always closes it again.
func (app *Crawler) Handle(ctx context.Context, fn func(*Crawler) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered in Handle: %v", r)
		}
		if closeErr := app.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", closeErr))
		}
	}()

	if err := app.Open(ctx); err != nil {
		return err
	}
	return fn(app)
}

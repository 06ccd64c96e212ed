package nezamcrawler

import (
	"strings"
	"time"
)

const (
	PlayWrightEngine = "playwright"
	RodEngine        = "rod"
	ChromedpEngine   = "chromedp"
)

// Engine controls how the directory site is driven.
type Engine struct {
	Adapter           string // playwright, rod, chromedp
	BrowserType       string // chromium, firefox, webkit (playwright only)
	Headless          *bool
	Timeout           time.Duration // page load bound
	NavigationTimeout time.Duration // bound on a pagination control becoming clickable
	UserAgent         string
	Args              []string
	CheckRobotsTxt    *bool
	StoreHtml         *bool // dump pages that broke navigation under storage/logs/<name>/html
	LogDir            string
	DisableLogFile    bool
}

func getDefaultEngine() Engine {
	return Engine{
		Adapter:           PlayWrightEngine,
		BrowserType:       "chromium",
		Headless:          Bool(true),
		Timeout:           30 * time.Second,
		NavigationTimeout: 15 * time.Second,
		UserAgent:         defaultUserAgent,
		CheckRobotsTxt:    Bool(false),
		StoreHtml:         Bool(true),
		LogDir:            "storage/logs",
	}
}

// engineFromConfig reads NEZAM_* keys on top of the defaults.
func engineFromConfig(config *configService) Engine {
	eng := Engine{
		Adapter:           strings.ToLower(config.EnvString("NEZAM_ADAPTER")),
		BrowserType:       strings.ToLower(config.EnvString("NEZAM_BROWSER")),
		Timeout:           config.GetDuration("NEZAM_PAGE_TIMEOUT"),
		NavigationTimeout: config.GetDuration("NEZAM_NAV_TIMEOUT"),
		UserAgent:         config.EnvString("USER_AGENT"),
		LogDir:            config.EnvString("NEZAM_LOG_DIR"),
	}
	if config.IsSet("NEZAM_HEADLESS") {
		eng.Headless = Bool(config.GetBool("NEZAM_HEADLESS"))
	}
	if config.IsSet("NEZAM_CHECK_ROBOTS") {
		eng.CheckRobotsTxt = Bool(config.GetBool("NEZAM_CHECK_ROBOTS"))
	}
	if args := config.EnvString("NEZAM_BROWSER_ARGS"); args != "" {
		eng.Args = strings.Split(args, ",")
	}
	return eng
}

func overrideEngineDefaults(defaultEngine *Engine, eng *Engine) {
	if eng.Adapter != "" {
		defaultEngine.Adapter = eng.Adapter
	}
	if eng.BrowserType != "" {
		defaultEngine.BrowserType = eng.BrowserType
	}
	if eng.Headless != nil {
		defaultEngine.Headless = eng.Headless
	}
	if eng.Timeout > 0 {
		defaultEngine.Timeout = eng.Timeout
	}
	if eng.NavigationTimeout > 0 {
		defaultEngine.NavigationTimeout = eng.NavigationTimeout
	}
	if eng.UserAgent != "" {
		defaultEngine.UserAgent = eng.UserAgent
	}
	if len(eng.Args) > 0 {
		defaultEngine.Args = eng.Args
	}
	if eng.CheckRobotsTxt != nil {
		defaultEngine.CheckRobotsTxt = eng.CheckRobotsTxt
	}
	if eng.StoreHtml != nil {
		defaultEngine.StoreHtml = eng.StoreHtml
	}
	if eng.LogDir != "" {
		defaultEngine.LogDir = eng.LogDir
	}
	if eng.DisableLogFile {
		defaultEngine.DisableLogFile = true
	}
}

func (app *Crawler) SetAdapter(adapter string) *Crawler {
	app.engine.Adapter = adapter
	return app
}

func (app *Crawler) SetBrowserType(browserType string) *Crawler {
	app.engine.BrowserType = browserType
	return app
}

func (app *Crawler) SetHeadless(headless bool) *Crawler {
	app.engine.Headless = &headless
	return app
}

func (app *Crawler) SetTimeout(timeout time.Duration) *Crawler {
	app.engine.Timeout = timeout
	return app
}

func (app *Crawler) SetNavigationTimeout(timeout time.Duration) *Crawler {
	app.engine.NavigationTimeout = timeout
	return app
}

func (app *Crawler) EnableRobotsTxtCheck() *Crawler {
	app.engine.CheckRobotsTxt = Bool(true)
	return app
}

// Bool returns a pointer to v, for the optional Engine fields.
func Bool(v bool) *bool {
	return &v
}

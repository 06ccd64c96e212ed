package nezamcrawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigService(t *testing.T) {
	t.Setenv("NEZAM_NAV_TIMEOUT", "7")
	t.Setenv("NEZAM_PAGE_TIMEOUT", "1500ms")
	t.Setenv("NEZAM_SITE_NAME", "")

	config := newConfig()

	assert.Equal(t, 7*time.Second, config.GetDuration("NEZAM_NAV_TIMEOUT"))
	assert.Equal(t, 1500*time.Millisecond, config.GetDuration("NEZAM_PAGE_TIMEOUT"))
	assert.Zero(t, config.GetDuration("NEZAM_UNSET_TIMEOUT"))
	assert.Equal(t, "irimc", config.EnvString("NEZAM_SITE_NAME", "irimc"))
	assert.False(t, config.IsSet("NEZAM_SITE_NAME"))

	config.Add("NEZAM_SITE_NAME", "mirror")
	assert.Equal(t, "mirror", config.EnvString("NEZAM_SITE_NAME", "irimc"))
	assert.Equal(t, "27017", config.Env("NEZAM_UNSET_PORT", "27017"))
}

func TestEngineLayering(t *testing.T) {
	t.Setenv("NEZAM_ADAPTER", "Rod")
	t.Setenv("NEZAM_HEADLESS", "false")
	t.Setenv("NEZAM_NAV_TIMEOUT", "20s")
	t.Setenv("NEZAM_BROWSER_ARGS", "no-sandbox,window-size=1280,800")

	fromConfig := NewCrawler(Engine{DisableLogFile: true})
	assert.Equal(t, RodEngine, fromConfig.engine.Adapter)
	assert.False(t, *fromConfig.engine.Headless)
	assert.Equal(t, 20*time.Second, fromConfig.engine.NavigationTimeout)
	assert.Equal(t, 30*time.Second, fromConfig.engine.Timeout)
	assert.Equal(t, []string{"no-sandbox", "window-size=1280", "800"}, fromConfig.engine.Args)

	explicit := NewCrawler(Engine{DisableLogFile: true, Adapter: ChromedpEngine, Headless: Bool(true)})
	assert.Equal(t, ChromedpEngine, explicit.engine.Adapter)
	assert.True(t, *explicit.engine.Headless)
	assert.Equal(t, 20*time.Second, explicit.engine.NavigationTimeout)
}

func TestEngineDefaults(t *testing.T) {
	eng := getDefaultEngine()
	assert.Equal(t, PlayWrightEngine, eng.Adapter)
	assert.Equal(t, 15*time.Second, eng.NavigationTimeout)
	assert.True(t, *eng.StoreHtml)
	assert.False(t, *eng.CheckRobotsTxt)
}

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeOptionsEngine(t *testing.T) {
	opts := &scrapeOptions{Adapter: "rod", Headless: true, NavTimeout: 5 * time.Second}

	eng := opts.engine()
	assert.Equal(t, "rod", eng.Adapter)
	assert.Equal(t, 5*time.Second, eng.NavigationTimeout)
	assert.Nil(t, eng.Headless, "an unset --headless leaves NEZAM_HEADLESS in charge")

	opts.Headless, opts.HeadlessSet = false, true
	eng = opts.engine()
	require.NotNil(t, eng.Headless)
	assert.False(t, *eng.Headless)
}

func TestScrapeCmdHeadlessFlag(t *testing.T) {
	cmd := newScrapeCmd()
	assert.False(t, cmd.Flags().Changed("headless"))

	require.NoError(t, cmd.Flags().Parse([]string{"--headless=false"}))
	assert.True(t, cmd.Flags().Changed("headless"))
	assert.Equal(t, "DoctorsList.xlsx", cmd.Flags().Lookup("out").DefValue)
}

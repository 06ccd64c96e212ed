package nezamcrawler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerKeepsPercentEncodedUrls(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := newDefaultLogger("test", "")
	logger.setOutput(logs)
	pageUrl := "https://membersearch.irimc.org/city/%D8%B3%D8%A7%D8%B1%DB%8C"

	logger.Html("", pageUrl, "walk "+pageUrl+": pagination count unparseable")

	assert.Contains(t, logs.String(), "walk "+pageUrl+": pagination count unparseable")
	assert.NotContains(t, logs.String(), "MISSING")
}

func TestSetBaseUrlLogsRejectedUrlVerbatim(t *testing.T) {
	crawler, _, _, logs := newTestCrawler(t)

	crawler.SetBaseUrl("directory/%D8%B3")

	assert.Contains(t, logs.String(), "directory/%D8%B3")
	assert.NotContains(t, logs.String(), "MISSING")
	assert.Equal(t, testBaseUrl, crawler.BaseUrl)
}

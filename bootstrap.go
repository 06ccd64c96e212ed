package nezamcrawler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

func (app *Crawler) bootstrap() error {
	if app.engine.CheckRobotsTxt != nil && *app.engine.CheckRobotsTxt {
		return app.checkRobotsTxt()
	}
	return nil
}

func (app *Crawler) checkRobotsTxt() error {
	app.Logger.Info("Checking robots.txt")
	robotsData, isUserAgentAllowed := checkRobotsTxt(app.BaseUrl, directoryPath, app.engine.UserAgent)
	if !isUserAgentAllowed {
		app.Logger.Summary("Crawling is disallowed by robots.txt")
		return fmt.Errorf("crawling %s is disallowed by robots.txt", app.DirectoryUrl())
	}
	app.robotsData = robotsData
	return nil
}

// allowedByRobots reports whether a page may be crawled. Without a parsed
// robots.txt everything is allowed.
func (app *Crawler) allowedByRobots(pageUrl string) bool {
	if app.robotsData == nil {
		return true
	}
	parsed, err := url.Parse(pageUrl)
	if err != nil {
		return true
	}
	return app.robotsData.TestAgent(parsed.Path, app.engine.UserAgent)
}

func checkRobotsTxt(baseUrl, path, userAgent string) (*robotstxt.RobotsData, bool) {
	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest(http.MethodGet, joinUrl(baseUrl, "robots.txt"), nil)
	if err != nil {
		return nil, true
	}
	req.Header.Set("User-Agent", userAgent)
	response, err := client.Do(req)
	if err != nil {
		fmt.Println("Could not fetch robots.txt:", err)
		return nil, true // default to allow if robots.txt can't be fetched
	}
	defer response.Body.Close()

	robotsData, err := robotstxt.FromResponse(response)
	if err != nil {
		fmt.Println("Error parsing robots.txt:", err)
		return nil, true
	}

	group := robotsData.FindGroup(userAgent)
	return robotsData, group.Test("/" + path)
}

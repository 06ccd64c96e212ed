package nezamcrawler

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// GetFullUrl resolves a site relative href against the crawler's base url.
func (app *Crawler) GetFullUrl(href string) string {
	return joinUrl(app.BaseUrl, href)
}

func joinUrl(baseUrl, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		// If href is already a full URL, don't concatenate with baseUrl
		return href
	}
	return strings.TrimRight(baseUrl, "/") + "/" + strings.TrimLeft(href, "/")
}

// normalizeBaseUrl keeps scheme, host and path, always ending with a slash.
func normalizeBaseUrl(urlString string) (string, error) {
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url %q: %w", urlString, err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", urlString)
	}
	return parsedURL.Scheme + "://" + parsedURL.Host + "/" + strings.Trim(parsedURL.Path, "/") + trailingSlash(parsedURL.Path), nil
}

func trailingSlash(path string) string {
	if strings.Trim(path, "/") == "" {
		return ""
	}
	return "/"
}

func documentHtml(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	html, err := doc.Html()
	if err != nil {
		return ""
	}
	return html
}

func writePageContentToFile(directory, html, url, msg string) error {
	if html == "" {
		html = "No Page Content Found"
	}
	html = strings.TrimSpace(msg) + "\n" + html
	html = fmt.Sprintf("<!-- Time: %v \n Page Url: %s -->\n%s", time.Now(), url, html)
	filename := generateFilename(url)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}
	filePath := filepath.Join(directory, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(html)
	return err
}

// generateFilename generates a filename based on URL and current date
func generateFilename(rawURL string) string {
	// Replace characters not allowed in file names
	invalidChars := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range invalidChars {
		rawURL = strings.ReplaceAll(rawURL, char, "_")
	}

	currentDate := time.Now().Format("2006-01-02")
	return currentDate + "_" + rawURL + ".html"
}

// generateExportFileName is the default export path for a run.
func generateExportFileName(siteName, format string) string {
	return fmt.Sprintf("storage/data/%s/%s.%s", siteName, time.Now().Format("2006_01_02"), format)
}

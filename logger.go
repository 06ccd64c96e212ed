package nezamcrawler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
)

// defaultLogger writes emoji tagged lines to stdout and a daily file under
// <logDir>/<siteName>, optionally mirrored to Cloud Logging.
type defaultLogger struct {
	logger   *log.Logger
	file     *os.File
	siteName string
	logDir   string

	cloudClient *logging.Client
	cloud       *logging.Logger
}

// newDefaultLogger creates a new instance of defaultLogger. An empty logDir
// keeps the logger on stdout only.
func newDefaultLogger(siteName, logDir string) *defaultLogger {
	l := &defaultLogger{siteName: siteName}
	if logDir == "" {
		l.logger = log.New(os.Stdout, "⏱️ ", log.LstdFlags)
		return l
	}

	currentDate := time.Now().Format("2006-01-02")
	directory := filepath.Join(logDir, siteName)
	if err := os.MkdirAll(directory, 0755); err != nil {
		log.Printf("Failed to create log directory: %v", err)
		l.logger = log.New(os.Stdout, "⏱️ ", log.LstdFlags)
		return l
	}

	logFilePath := filepath.Join(directory, currentDate+"_application.log")
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Printf("Failed to open log file: %v", err)
		l.logger = log.New(os.Stdout, "⏱️ ", log.LstdFlags)
		return l
	}

	l.file = file
	l.logDir = logDir
	l.logger = log.New(io.MultiWriter(file, os.Stdout), "⏱️ ", log.LstdFlags)
	return l
}

// setOutput replaces every local sink with w.
func (l *defaultLogger) setOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// mirrorToCloud sends every entry to Cloud Logging under the site name.
func (l *defaultLogger) mirrorToCloud(ctx context.Context, projectID, credentialsPath string) error {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := logging.NewClient(ctx, projectID, opts...)
	if err != nil {
		return fmt.Errorf("failed to create logging client: %w", err)
	}
	l.cloudClient = client
	l.cloud = client.Logger(l.siteName)
	return nil
}

func (l *defaultLogger) log(severity logging.Severity, prefix, format string, args ...interface{}) {
	l.logger.Printf(prefix+format, args...)
	if l.cloud != nil {
		l.cloud.Log(logging.Entry{Severity: severity, Payload: fmt.Sprintf(format, args...)})
	}
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	l.log(logging.Info, "📢 INFO: ", format, args...)
}

func (l *defaultLogger) Summary(format string, args ...interface{}) {
	l.log(logging.Notice, "📊 SUMMARY: ", format, args...)
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	l.log(logging.Warning, "⚠️ WARN: ", format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	l.log(logging.Error, "🛑 ERROR: ", format, args...)
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	l.log(logging.Debug, "🐞 DEBUG: ", format, args...)
}

// Html logs msg as an error and keeps the page that caused it.
func (l *defaultLogger) Html(html, url, msg string) {
	l.Error("%s", msg)
	if l.logDir == "" {
		return
	}
	if err := writePageContentToFile(filepath.Join(l.logDir, l.siteName, "html"), html, url, msg); err != nil {
		l.logger.Printf("⚛️ HTML: %v", err)
	}
}

func (l *defaultLogger) Close() error {
	var err error
	if l.cloudClient != nil {
		err = l.cloudClient.Close()
		l.cloudClient, l.cloud = nil, nil
	}
	if l.file != nil {
		l.logger.SetOutput(os.Stdout)
		if cerr := l.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		l.file = nil
		l.logDir = ""
	}
	return err
}

package nezamcrawler

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/option"
)

// uploadToBucket uploads an exported file to gs://<bucket>/nezam/<name>/<destinationFileName>.
func (app *Crawler) uploadToBucket(ctx context.Context, bucketName, sourceFileName, destinationFileName string) error {
	startTime := time.Now()
	destinationFileName = fmt.Sprintf("nezam/%s/%s", app.Name, destinationFileName)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	client, err := storage.NewClient(ctx, app.gcpClientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			app.Logger.Error("Failed to close storage client: %v", err)
		}
	}()

	file, err := os.Open(sourceFileName)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", sourceFileName, err)
	}
	defer file.Close()

	writer := client.Bucket(bucketName).Object(destinationFileName).NewWriter(ctx)
	contentType, err := detectContentType(sourceFileName)
	if err != nil {
		app.Logger.Error("Failed to detect content type for file %s: %v", sourceFileName, err)
		writer.ContentType = "application/octet-stream"
	} else {
		writer.ContentType = contentType
	}

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return fmt.Errorf("failed to copy file data to bucket %s: %w", bucketName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer for file %s: %w", destinationFileName, err)
	}

	app.Logger.Info("File %s uploaded to bucket %s successfully. Time taken: %s", sourceFileName, bucketName, time.Since(startTime))
	return nil
}

func detectContentType(filePath string) (string, error) {
	mime, err := mimetype.DetectFile(filePath)
	if err != nil {
		return "", err
	}
	return mime.String(), nil
}

// gcpClientOptions uses GCP_CREDENTIALS_PATH when set, application default
// credentials otherwise.
func (app *Crawler) gcpClientOptions() []option.ClientOption {
	if path := app.Config.EnvString("GCP_CREDENTIALS_PATH"); path != "" {
		return []option.ClientOption{option.WithCredentialsFile(path)}
	}
	return nil
}

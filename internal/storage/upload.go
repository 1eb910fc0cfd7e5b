package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Upload stores body under key and returns its public URL.
func (r *R2Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &r.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return PublicURL(r.baseURL, r.bucket, key), nil
}

// PublicURL joins the public base URL and key. Without a base URL the bucket
// name stands in as the host.
func PublicURL(baseURL, bucket, key string) string {
	if baseURL == "" {
		return fmt.Sprintf("https://%s/%s", bucket, key)
	}
	return fmt.Sprintf("%s/%s", baseURL, key)
}

// ObjectKey builds a unique key such as exports/2026/10/16/<setup>-<uuid>.json.
func ObjectKey(prefix, setupID, ext string, now time.Time) string {
	name := fmt.Sprintf("%s-%s%s", setupID, uuid.NewString(), ext)
	return path.Join(prefix, now.UTC().Format("2006/01/02"), name)
}

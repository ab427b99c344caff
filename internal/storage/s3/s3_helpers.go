package s3

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Delete removes key; deleting a missing object is not an error on S3.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", key, err)
	}
	return nil
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// CoverContentType maps a file name to its image MIME type; ok is false for
// anything that is not an accepted cover format.
func CoverContentType(name string) (string, bool) {
	ct, ok := imageTypes[strings.ToLower(filepath.Ext(name))]
	return ct, ok
}

// CoverKey names a fresh object for a book's cover. Keys are never reused so
// cached URLs of a replaced cover go stale on their own.
func CoverKey(bookID int64, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return fmt.Sprintf("covers/%d/%s%s", bookID, uuid.NewString(), ext)
}

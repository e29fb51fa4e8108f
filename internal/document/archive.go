package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

// Archive keeps a copy of every uploaded document.
type Archive interface {
	Store(ctx context.Context, u Upload) (string, error)
}

// Discard is an Archive that keeps nothing.
type Discard struct{}

func (Discard) Store(context.Context, Upload) (string, error) {
	return "", nil
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores uploads under documents/<ulid>/<filename> in a bucket.
type S3Archive struct {
	client objectPutter
	bucket string
	logger *log.Logger
}

// NewS3Archive loads AWS configuration for region. A non-empty endpoint
// points the client at an S3-compatible service such as LocalStack.
func NewS3Archive(ctx context.Context, region, bucket, endpoint string, logger *log.Logger) (*S3Archive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Archive(client, bucket, logger), nil
}

func newS3Archive(client objectPutter, bucket string, logger *log.Logger) *S3Archive {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &S3Archive{client: client, bucket: bucket, logger: logger}
}

func (a *S3Archive) Store(ctx context.Context, u Upload) (string, error) {
	key := ObjectKey(ulid.Make().String(), u.Name)
	ct := u.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(u.Data),
		ContentType: aws.String(ct),
		Metadata:    map[string]string{"original_name": u.Name},
	})
	if err != nil {
		a.logger.Printf("document archive: put key=%s err=%v", key, err)
		return "", fmt.Errorf("archive %q: %w", u.Name, err)
	}
	return key, nil
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey builds the archive key for a document.
func ObjectKey(id, filename string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(path.Base(filename), "_"), "_.")
	if name == "" {
		name = "document"
	}
	return "documents/" + id + "/" + name
}

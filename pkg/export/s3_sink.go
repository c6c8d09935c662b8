package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// UploadTimeout bounds a single frame upload
const UploadTimeout = 10 * time.Second

// ErrMissingBucket is returned when no bucket is configured for uploads
var ErrMissingBucket = errors.New("S3_BUCKET is not set")

// S3Config holds object storage settings, usually read from the environment
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string // Empty for AWS, set for S3-compatible stores
	Region    string
	Bucket    string
	Prefix    string // Key prefix for uploaded frames
}

// S3ConfigFromEnv reads S3_ACCESS_KEY, S3_SECRET_KEY, S3_ENDPOINT,
// S3_REGION, S3_BUCKET and S3_PREFIX
func S3ConfigFromEnv() S3Config {
	return S3Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Prefix:    getEnv("S3_PREFIX", "frames"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// NewS3Client creates an S3 client using static credentials and path-style
// addressing so that S3-compatible endpoints work
func NewS3Client(cfg S3Config) (s3iface.S3API, error) {
	awsConfig := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return s3.New(sess), nil
}

// S3Sink uploads each frame as a PNG object
type S3Sink struct {
	client s3iface.S3API
	bucket string
	prefix string
	size   int
	logger core.Logger
}

// NewS3Sink creates a sink uploading to cfg.Bucket under cfg.Prefix. size
// rescales frames as in FileSink.
func NewS3Sink(client s3iface.S3API, cfg S3Config, size int, logger core.Logger) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}
	return &S3Sink{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		size:   size,
		logger: logger,
	}, nil
}

// Key returns the object key a frame is uploaded to
func (s *S3Sink) Key(frame int) string {
	return path.Join(s.prefix, FrameName(frame))
}

// WriteFrame encodes the frame as PNG and uploads it
func (s *S3Sink) WriteFrame(ctx context.Context, frame int, img image.Image) error {
	var buf bytes.Buffer
	if err := Encode(&buf, Scale(img, s.size), "png"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := s.Key(frame)
	size := int64(buf.Len())
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if s.logger != nil {
		s.logger.Printf("Uploaded %s to S3 (%d bytes)\n", key, size)
	}
	return nil
}

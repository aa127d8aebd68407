package objstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/config"
)

// cacheControl matches the storage cache policy the web client always
// uploaded with.
const cacheControl = "max-age=3600"

// S3Store talks to any S3-compatible storage backend (AWS, MinIO,
// Supabase Storage's S3 endpoint).
type S3Store struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

func NewS3Store(cfg *config.Config) (*S3Store, error) {
	s3Opts := []func(*s3.Options){}

	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // required for MinIO and Supabase
		})
	}

	credsProvider := credentials.NewStaticCredentialsProvider(
		cfg.S3AccessKeyID,
		cfg.S3SecretAccessKey,
		"",
	)

	awsCfg := aws.Config{
		Region:      cfg.S3Region,
		Credentials: credsProvider,
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	publicBase := strings.TrimSuffix(cfg.S3PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = strings.TrimSuffix(cfg.S3Endpoint, "/") + "/public"
	}

	store := &S3Store{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.S3BucketName,
		publicBaseURL: publicBase,
	}

	log.Printf("objstore: S3 store initialized with endpoint %q, bucket %q", cfg.S3Endpoint, cfg.S3BucketName)
	return store, nil
}

// Upload stores the object under path. Existing objects are never
// overwritten; storage paths carry a timestamp to avoid collisions.
func (s *S3Store) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(path),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
		IfNoneMatch:  aws.String("*"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", path, err)
	}
	return nil
}

// PublicURL returns the durable public locator for an uploaded object.
// The shape keeps the /public/<bucket>/<path> tail so PathFromURL can
// invert it.
func (s *S3Store) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, path)
}

func (s *S3Store) RemoveMany(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(p)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("failed to remove objects: %w", err)
	}

	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to remove %d of %d objects, first: %s %s",
			len(out.Errors), len(paths), aws.ToString(first.Key), aws.ToString(first.Message))
	}

	return nil
}

func (s *S3Store) PathFromURL(url string) (string, bool) {
	return PathFromPublicURL(s.bucket, url)
}

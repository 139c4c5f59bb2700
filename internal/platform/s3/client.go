package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/hashicorp/go-multierror"
)

// maxDeleteBatch is the DeleteObjects per-request key limit.
const maxDeleteBatch = 1000

// checksumMetadataKey carries the hex SHA-256 of every uploaded artifact.
const checksumMetadataKey = "sha256"

// Client talks to an S3-compatible object store.
type Client struct {
	api    *s3.Client
	region string
}

// NewClient creates a Client using the default AWS credential chain.
// A non-empty endpoint selects an S3-compatible service such as MinIO or
// Ceph RGW and switches to path-style addressing.
func NewClient(ctx context.Context, endpoint, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{api: api, region: region}, nil
}

// EnsureBucket creates bucket unless it is already reachable.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}

	_, err = c.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil && !isAlreadyOwned(err) {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// ListObjects lists every key under prefix, following continuation tokens.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	pages := s3.NewListObjectsV2Paginator(c.api, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// PutObject uploads data under key with a content type derived from the key
// extension and its SHA-256 recorded as object metadata.
func (c *Client) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	sum := sha256.Sum256(data)
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(key)),
		Metadata:      map[string]string{checksumMetadataKey: hex.EncodeToString(sum[:])},
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s in bucket %s: %w", key, bucket, err)
	}
	return nil
}

// DeleteObjects removes keys in batches. Keys the store refuses to delete are
// reported together in the returned error.
func (c *Client) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	var result *multierror.Error
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))
		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects from bucket %s: %w", bucket, err)
		}
		for _, e := range out.Errors {
			result = multierror.Append(result, fmt.Errorf("failed to delete object %s: %s: %s",
				aws.ToString(e.Key), aws.ToString(e.Code), aws.ToString(e.Message)))
		}
	}
	return result.ErrorOrNil()
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".yaml", ".yml":
		return "application/yaml"
	case ".sh":
		return "text/x-shellscript"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// errorCode returns the service error code, covering S3-compatible stores
// that do not map onto the SDK's typed errors.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func isNotFound(err error) bool {
	var nsb *types.NoSuchBucket
	var nf *types.NotFound
	if errors.As(err, &nsb) || errors.As(err, &nf) {
		return true
	}
	switch errorCode(err) {
	case "NotFound", "NoSuchBucket", "404":
		return true
	}
	return false
}

func isAlreadyOwned(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	return errors.As(err, &owned) || errorCode(err) == "BucketAlreadyOwnedByYou"
}

package s3column

import (
	"context"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dogmatiq/preferencekit/column"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/s3x"
	"github.com/dogmatiq/preferencekit/internal/syncx"
)

// store is an implementation of [column.Store] that persists to an S3 bucket.
type store struct {
	Client    *s3.Client
	Bucket    string
	OnRequest func(any) []func(*s3.Options)

	createBucketOnce syncx.SucceedOnce
}

// NewStore returns a new [column.Store] that uses the given S3 client to store
// packed values in the given bucket.
//
// Each record is stored as a separate object, keyed by the column name and the
// record ID. The bucket is created on first use if it does not already exist.
func NewStore(
	client *s3.Client,
	bucket string,
	options ...Option,
) column.Store {
	if bucket == "" {
		panic("bucket name must not be empty")
	}

	s := &store{
		Client: client,
		Bucket: bucket,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Option is a functional option that changes the behavior of [NewStore].
type Option func(*store)

// WithRequestHook is an [Option] that configures fn as a pre-request hook.
//
// Before each S3 API request, fn is passed a pointer to the input struct, e.g.
// [s3.GetObjectInput], which it may modify in-place. It may be called with any
// S3 request type. The types of requests used may change in any version without
// notice.
//
// Any functions returned by fn will be applied to the request's options before
// the request is sent.
func WithRequestHook(fn func(any) []func(*s3.Options)) Option {
	return func(s *store) {
		s.OnRequest = fn
	}
}

// Open returns the column with the given name.
func (s *store) Open(ctx context.Context, name string) (column.Column, error) {
	if err := s.createBucketOnce.Do(ctx, s.createBucket); err != nil {
		return nil, err
	}

	return &col{
		client:          s.Client,
		onRequest:       s.OnRequest,
		name:            name,
		bucket:          s.Bucket,
		objectKeyPrefix: url.PathEscape(name) + "/",
	}, nil
}

func (s *store) createBucket(ctx context.Context) error {
	return s3x.CreateBucketIfNotExists(
		ctx,
		s.Client,
		s.Bucket,
		s.OnRequest,
	)
}

package s3column

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dogmatiq/preferencekit/column"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/awsx"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/s3x"
	"github.com/dogmatiq/preferencekit/internal/errorx"
	"github.com/dogmatiq/preferencekit/marshaler"
)

// contentType is the MIME type of each object's body.
const contentType = "application/vnd.google.protobuf; proto=google.protobuf.UInt64Value"

// col is an implementation of [column.Column] that stores each record's packed
// value as an S3 object.
type col struct {
	client    *s3.Client
	onRequest func(any) []func(*s3.Options)

	// name is the column name.
	name string

	// bucket is the name of the S3 bucket in which the objects are stored.
	bucket string

	// objectKeyPrefix is the string prepended to the key of each S3 object,
	// allowing multiple columns to be stored in the same bucket.
	objectKeyPrefix string
}

func (c *col) Name() string {
	return c.name
}

func (c *col) Load(ctx context.Context, id string) (packed uint64, ok bool, err error) {
	defer errorx.Wrap(&err, "unable to load %q from the %q column", id, c.name)

	res, err := awsx.Do(
		ctx,
		c.client.GetObject,
		c.onRequest,
		&s3.GetObjectInput{
			Bucket: &c.bucket,
			Key:    c.objectKey(id),
		},
	)
	if err != nil {
		return 0, false, s3x.IgnoreNotExists(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, false, err
	}

	packed, err = marshaler.Packed.Unmarshal(data)
	if err != nil {
		return 0, false, err
	}

	return packed, true, nil
}

func (c *col) Save(ctx context.Context, id string, packed uint64) (err error) {
	defer errorx.Wrap(&err, "unable to save %q to the %q column", id, c.name)

	data, err := marshaler.Packed.Marshal(packed)
	if err != nil {
		return err
	}

	_, err = awsx.Do(
		ctx,
		c.client.PutObject,
		c.onRequest,
		&s3.PutObjectInput{
			Bucket:        &c.bucket,
			Key:           c.objectKey(id),
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(int64(len(data))),
			Body:          s3x.NewReadSeeker(data),
		},
	)

	return err
}

func (c *col) Delete(ctx context.Context, id string) (err error) {
	defer errorx.Wrap(&err, "unable to delete %q from the %q column", id, c.name)

	_, err = awsx.Do(
		ctx,
		c.client.DeleteObject,
		c.onRequest,
		&s3.DeleteObjectInput{
			Bucket: &c.bucket,
			Key:    c.objectKey(id),
		},
	)

	return s3x.IgnoreNotExists(err)
}

func (c *col) Range(ctx context.Context, fn column.RangeFunc) error {
	req := &s3.ListObjectsV2Input{
		Bucket: &c.bucket,
		Prefix: &c.objectKeyPrefix,
	}

	for {
		list, err := awsx.Do(
			ctx,
			c.client.ListObjectsV2,
			c.onRequest,
			req,
		)
		if err != nil {
			errorx.Wrap(&err, "unable to list objects in the %q column", c.name)
			return err
		}

		for _, obj := range list.Contents {
			id, err := c.idFromObjectKey(*obj.Key)
			if err != nil {
				return err
			}

			packed, ok, err := c.Load(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				// The object was deleted after it was listed.
				continue
			}

			if ok, err := fn(ctx, id, packed); !ok || err != nil {
				return err
			}
		}

		if !aws.ToBool(list.IsTruncated) {
			return nil
		}

		req.ContinuationToken = list.NextContinuationToken
	}
}

func (c *col) Close() error {
	return nil
}

func (c *col) objectKey(id string) *string {
	return aws.String(c.objectKeyPrefix + url.PathEscape(id))
}

func (c *col) idFromObjectKey(key string) (string, error) {
	id, err := url.PathUnescape(strings.TrimPrefix(key, c.objectKeyPrefix))
	if err != nil {
		errorx.Wrap(&err, "object %q has a malformed key", key)
	}
	return id, err
}

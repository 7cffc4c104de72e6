package s3x

import (
	"errors"
	"slices"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// IsNotExists returns true if err is an error that indicates the requested
// object or bucket was not found.
func IsNotExists(err error) bool {
	if err == nil {
		return false
	}

	for err != nil {
		switch err.(type) {
		case *types.NotFound:
			return true
		case *types.NoSuchKey:
			return true
		case *types.NoSuchBucket:
			return true
		default:
			err = errors.Unwrap(err)
		}
	}

	return false
}

// IgnoreNotExists returns nil if err is an error that indicates the requested
// object was not found; otherwise it returns err.
func IgnoreNotExists(err error) error {
	if IsNotExists(err) {
		return nil
	}
	return err
}

// IsAlreadyExists returns true if err is an error that indicates the requested
// bucket already exists.
//
// Some S3-compatible services report these conditions as generic API errors,
// so the error code is checked as well as the error type.
func IsAlreadyExists(err error) bool {
	var (
		exists *types.BucketAlreadyExists
		owned  *types.BucketAlreadyOwnedByYou
		api    smithy.APIError
	)

	switch {
	case errors.As(err, &exists), errors.As(err, &owned):
		return true
	case errors.As(err, &api):
		return slices.Contains(
			[]string{"BucketAlreadyExists", "BucketAlreadyOwnedByYou"},
			api.ErrorCode(),
		)
	default:
		return false
	}
}

// IgnoreAlreadyExists returns nil if err is an error that indicates the
// requested bucket already exists; otherwise it returns err.
func IgnoreAlreadyExists(err error) error {
	if IsAlreadyExists(err) {
		return nil
	}
	return err
}

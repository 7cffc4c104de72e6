package s3x_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	. "github.com/dogmatiq/preferencekit/driver/aws/internal/s3x"
)

func TestIsNotExists(t *testing.T) {
	t.Parallel()

	cases := []struct {
		Desc string
		Err  error
		Want bool
	}{
		{"nil", nil, false},
		{"no such key", &types.NoSuchKey{}, true},
		{"wrapped no such bucket", fmt.Errorf("<outer>: %w", &types.NoSuchBucket{}), true},
		{"not found", &types.NotFound{}, true},
		{"other", errors.New("<error>"), false},
	}

	for _, c := range cases {
		t.Run(c.Desc, func(t *testing.T) {
			t.Parallel()

			if got := IsNotExists(c.Err); got != c.Want {
				t.Fatalf("unexpected result: got %t, want %t", got, c.Want)
			}
		})
	}
}

func TestIsAlreadyExists(t *testing.T) {
	t.Parallel()

	cases := []struct {
		Desc string
		Err  error
		Want bool
	}{
		{"nil", nil, false},
		{"already exists", &types.BucketAlreadyExists{}, true},
		{"wrapped already owned", fmt.Errorf("<outer>: %w", &types.BucketAlreadyOwnedByYou{}), true},
		{"generic API error", &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}, true},
		{"unrelated API error", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"other", errors.New("<error>"), false},
	}

	for _, c := range cases {
		t.Run(c.Desc, func(t *testing.T) {
			t.Parallel()

			if got := IsAlreadyExists(c.Err); got != c.Want {
				t.Fatalf("unexpected result: got %t, want %t", got, c.Want)
			}

			if got := IgnoreAlreadyExists(c.Err) == nil; got != (c.Want || c.Err == nil) {
				t.Fatalf("unexpected ignore result: got %t", got)
			}
		})
	}
}

package dynamocolumn_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dogmatiq/preferencekit/column"
	. "github.com/dogmatiq/preferencekit/driver/aws/dynamocolumn"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/dynamox"
	"github.com/dogmatiq/preferencekit/internal/x/xtesting"
)

func TestStore(t *testing.T) {
	client, table := setup(t)
	column.RunTests(t, NewStore(client, table))
}

func BenchmarkStore(b *testing.B) {
	client, table := setup(b)
	column.RunBenchmarks(b, NewStore(client, table))
}

func setup(t testing.TB) (*dynamodb.Client, string) {
	client := dynamox.NewTestClient(t)
	table := xtesting.UniqueName("packed")

	t.Cleanup(func() {
		ctx := xtesting.ContextForCleanup(t)
		if err := dynamox.DeleteTableIfExists(ctx, client, table, nil); err != nil {
			t.Error(err)
		}
	})

	return client, table
}

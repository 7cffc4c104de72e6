package bigint_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/dogmatiq/preferencekit/driver/sql/postgres/internal/bigint"
)

func TestConvertUnsigned(t *testing.T) {
	cases := []struct {
		Name     string
		Unsigned uint64
		Signed   int64
	}{
		{
			"zero",
			0,
			0,
		},
		{
			"low bits",
			0b1011,
			0b1011,
		},
		{
			"max int64",
			math.MaxInt64,
			math.MaxInt64,
		},
		{
			"sign bit only",
			1 << 63,
			math.MinInt64,
		},
		{
			"max uint64",
			math.MaxUint64,
			-1,
		},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			s, err := ConvertUnsigned(&c.Unsigned).Value()
			if err != nil {
				t.Fatal(err)
			}

			if s != c.Signed {
				t.Fatalf("unexpected encoded value: got %d, want %d", s, c.Signed)
			}

			var u uint64
			if err := ConvertUnsigned(&u).Scan(c.Signed); err != nil {
				t.Fatal(err)
			}

			if u != c.Unsigned {
				t.Fatalf("unexpected decoded value: got %d, want %d", u, c.Unsigned)
			}
		})
	}

	t.Run("it preserves every bit", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			random := rand.Uint64()

			s, err := ConvertUnsigned(&random).Value()
			if err != nil {
				t.Fatal(err)
			}

			for bit := range 64 {
				mask := uint64(1) << bit
				if (random&mask != 0) != (uint64(s.(int64))&mask != 0) {
					t.Fatalf("bit %d of %b was not preserved", bit, random)
				}
			}

			var u uint64
			if err := ConvertUnsigned(&u).Scan(s); err != nil {
				t.Fatal(err)
			}

			if u != random {
				t.Fatalf("unexpected decoded value: got %d, want %d", u, random)
			}
		}
	})

	t.Run("it rejects non-integer sources", func(t *testing.T) {
		var u uint64
		if err := ConvertUnsigned(&u).Scan("1"); err == nil {
			t.Fatal("expected an error")
		}
	})
}

package sampling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTableIsValid(t *testing.T) {
	require.NoError(t, Validate(Table()))
	assert.Equal(t, 121, Len())
}

func TestTableShape(t *testing.T) {
	first := At(0)
	assert.Equal(t, 0.19342359767891684, first.Lambda)
	assert.Equal(t, 4, first.SampleSize)

	s := Sentinel()
	assert.True(t, s.IsSentinel())
	assert.Equal(t, math.MaxFloat64, s.Lambda)
	assert.Equal(t, math.MaxInt, s.SampleSize)
	assert.True(t, Unbounded(s.SampleSize))

	assert.Equal(t, 4900.0, MaxFiniteLambda())
}

func TestTableReturnsCopy(t *testing.T) {
	tbl := Table()
	tbl[0] = Entry{Lambda: -1, SampleSize: 1}

	assert.Equal(t, 4, At(0).SampleSize)
	assert.NoError(t, Validate(Table()))
}

func TestTableHasAdjacentDuplicates(t *testing.T) {
	tbl := Table()
	var dups int
	for i := 1; i < len(tbl); i++ {
		if tbl[i].Lambda == tbl[i-1].Lambda {
			dups++
		}
	}
	// (50.0 -> 77) and (50.0 -> 81)
	assert.Equal(t, 1, dups)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{"Empty", nil, ErrEmptyTable},
		{"OnlySentinel", []Entry{SentinelEntry}, nil},
		{"NoSentinel", []Entry{{1, 2}, {2, 3}}, ErrMissingSentinel},
		{"Unsorted", []Entry{{2, 2}, {1, 3}, SentinelEntry}, ErrUnsorted},
		{"SizeDecreases", []Entry{{1, 5}, {2, 3}, SentinelEntry}, ErrNonMonotonic},
		{"NaN", []Entry{{math.NaN(), 2}, SentinelEntry}, ErrInvalidEntry},
		{"ZeroSize", []Entry{{1, 0}, SentinelEntry}, ErrInvalidEntry},
		{"DuplicateLambda", []Entry{{1, 2}, {1, 3}, SentinelEntry}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.entries)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEntryString(t *testing.T) {
	assert.Equal(t, "(0.25 -> 5)", Entry{0.25, 5}.String())
	assert.Equal(t, "(+inf -> unbounded)", SentinelEntry.String())
}

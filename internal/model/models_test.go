package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortType(t *testing.T) {
	for _, valid := range []string{
		"a-z", "z-a", "price-high", "price-low", "popularity-high", "popularity-low",
	} {
		st, err := ParseSortType(valid)
		assert.NoError(t, err)
		assert.Equal(t, SortType(valid), st)
		assert.True(t, st.Valid())
	}

	for _, invalid := range []string{"", "alphabetical", "A-Z", "price", "popularity-high "} {
		_, err := ParseSortType(invalid)
		assert.True(t, errors.Is(err, ErrInvalidSortType), "%q 应当被拒绝", invalid)
	}
}

func TestSortTypesCount(t *testing.T) {
	assert.Len(t, SortTypes, 6)
}

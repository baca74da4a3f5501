package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessComparesDecimalAndBinarySuffixes(t *testing.T) {
	assert.True(t, Less("100m", "1"))
	assert.True(t, Less("512Mi", "1Gi"))
	assert.False(t, Less("2", "2"))
	assert.False(t, Less("1Gi", "512Mi"))
}

func TestIsZeroTreatsEmptyAndMalformedAsZero(t *testing.T) {
	assert.True(t, IsZero(""))
	assert.True(t, IsZero("not-a-quantity"))
	assert.False(t, IsZero("1"))
	assert.False(t, IsZero("0.1"))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 50.0, PercentOf(50, 100))
	assert.Equal(t, 0.0, PercentOf(50, 0))
}

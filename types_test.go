package memecat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/memecat/memecat"
)

func TestNormalizeTime(t *testing.T) {
	t.Run("strips sub-second precision", func(t *testing.T) {
		in := time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.UTC)
		got := memecat.NormalizeTime(in)
		assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC), got)
	})

	t.Run("converts to UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*60*60)
		in := time.Date(2024, 3, 15, 10, 30, 45, 0, loc)

		got := memecat.NormalizeTime(in)
		assert.Equal(t, time.UTC, got.Location())
		assert.True(t, got.Equal(in))
	})

	t.Run("idempotent", func(t *testing.T) {
		in := time.Now()
		once := memecat.NormalizeTime(in)
		twice := memecat.NormalizeTime(once)
		assert.Equal(t, once, twice)
	})
}

func TestStringPtr(t *testing.T) {
	p := memecat.StringPtr("test")
	assert.NotNil(t, p)
	assert.Equal(t, "test", *p)
}

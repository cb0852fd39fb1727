package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 95)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, int64(10), p.Pages)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, 10, p.Limit())
}

func TestNewPaginationOffset(t *testing.T) {
	p := NewPagination(3, 20, 100)
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, int64(5), p.Pages)
}

func TestNewPaginationCapsPageSize(t *testing.T) {
	p := NewPagination(1, 5000, 0)
	assert.Equal(t, 1000, p.PageSize)
	assert.Equal(t, int64(0), p.Pages)
}

package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationDefaults(t *testing.T) {
	pg := NewPagination(0, 0, 45)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.PerPage)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 0, pg.Offset())
}

func TestNewPaginationOffset(t *testing.T) {
	pg := NewPagination(3, 10, 100)
	assert.Equal(t, 10, pg.TotalPages)
	assert.Equal(t, 20, pg.Offset())
}

func TestNewPaginationEmpty(t *testing.T) {
	pg := NewPagination(1, 10, 0)
	assert.Equal(t, 0, pg.TotalPages)
}

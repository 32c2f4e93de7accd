package service

import (
	"testing"

	"gramm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name    string
		page    int
		want    []int
		hasNext bool
		hasPrev bool
		wantErr bool
	}{
		{name: "first", page: 1, want: []int{1, 2}, hasNext: true},
		{name: "middle", page: 2, want: []int{3, 4}, hasNext: true, hasPrev: true},
		{name: "last partial", page: 3, want: []int{5}, hasPrev: true},
		{name: "past the end", page: 4, wantErr: true},
		{name: "zero", page: 0, wantErr: true},
		{name: "negative", page: -2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate(items, 2, tt.page)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidPage)
				assert.Equal(t, models.KindValidation, models.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Items)
			assert.Equal(t, 5, page.Total)
			assert.Equal(t, 3, page.NumPages)
			assert.Equal(t, tt.hasNext, page.HasNext)
			assert.Equal(t, tt.hasPrev, page.HasPrevious)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	page, err := Paginate([]string{}, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)

	_, err = Paginate([]string{}, 10, 2)
	assert.ErrorIs(t, err, models.ErrInvalidPage)
}

func TestNewPage_Offset(t *testing.T) {
	page, err := NewPage[string](25, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Offset())
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	repo := new(MockStatsRepository)
	repo.On("CountTables", mock.Anything).Return(7, nil)
	repo.On("RowCounts", mock.Anything).Return(map[string]int{"users": 2, "posts": 5}, nil)

	stats, err := NewStatsService(repo).GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Tables)
	assert.Equal(t, 5, stats.Rows["posts"])
}

func TestGetStats_Error(t *testing.T) {
	repo := new(MockStatsRepository)
	repo.On("CountTables", mock.Anything).Return(0, errStore)

	_, err := NewStatsService(repo).GetStats(context.Background())
	assert.ErrorIs(t, err, errStore)
	repo.AssertNotCalled(t, "RowCounts", mock.Anything)
}

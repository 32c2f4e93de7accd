package service

import (
	"context"

	"gramm/internal/repository"
)

type Stats struct {
	Tables int            `json:"tables"`
	Rows   map[string]int `json:"rows"`
}

type StatsService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetStats(ctx context.Context) (*Stats, error) {
	countTables, err := s.statsRepo.CountTables(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.statsRepo.RowCounts(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{Tables: countTables, Rows: rows}, nil
}

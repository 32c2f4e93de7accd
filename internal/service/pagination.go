package service

import "gramm/internal/models"

// NewPage computes the window for pageNumber over total items.
// An empty collection still has a single empty first page.
func NewPage[T any](total, pageSize, pageNumber int) (models.Page[T], error) {
	if pageSize < 1 {
		pageSize = 1
	}

	numPages := (total + pageSize - 1) / pageSize
	if numPages == 0 {
		numPages = 1
	}

	if pageNumber < 1 || pageNumber > numPages {
		return models.Page[T]{}, models.ErrInvalidPage
	}

	return models.Page[T]{
		Items:       []T{},
		Number:      pageNumber,
		PageSize:    pageSize,
		Total:       total,
		NumPages:    numPages,
		HasNext:     pageNumber < numPages,
		HasPrevious: pageNumber > 1,
	}, nil
}

// Paginate slices an in-memory collection.
func Paginate[T any](items []T, pageSize, pageNumber int) (models.Page[T], error) {
	page, err := NewPage[T](len(items), pageSize, pageNumber)
	if err != nil {
		return page, err
	}

	start := page.Offset()
	end := min(start+page.PageSize, len(items))
	page.Items = items[start:end]

	return page, nil
}

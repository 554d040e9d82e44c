package models

// PaginatedResponse is one page of an admin listing.
type PaginatedResponse struct {
	Data       any `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

func NewPage(data any, total, page, pageSize int) *PaginatedResponse {
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: PageCount(total, pageSize),
	}
}

// PageCount rounds up; an empty listing has zero pages.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}

	return (total + pageSize - 1) / pageSize
}

// PageOffset converts a 1-based page into a SQL OFFSET.
func PageOffset(page, pageSize int) int {
	if page < 1 {
		return 0
	}

	return (page - 1) * pageSize
}

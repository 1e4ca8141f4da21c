package models

import "time"

// ShortURL maps a short code to its redirect target.
type ShortURL struct {
	ID          string
	OriginalURL string
	ShortCode   string
	// UserID is empty for links created anonymously.
	UserID     string
	ClickCount int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

func (s *ShortURL) IsDeleted() bool {
	return s.DeletedAt != nil
}

// IsOwnedBy reports whether userID owns the link. Anonymous links have no owner.
func (s *ShortURL) IsOwnedBy(userID string) bool {
	return s.UserID != "" && s.UserID == userID
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated caller extracted from an access token.
type Principal struct {
	UserID string
	Email  string
}

type SortField string

const (
	SortByCreatedAt  SortField = "createdAt"
	SortByUpdatedAt  SortField = "updatedAt"
	SortByClickCount SortField = "clickCount"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByClickCount:
		return true
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type ListParams struct {
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
}

// Offset is the number of rows skipped before the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type ShortURLPage struct {
	Items      []ShortURL
	Pagination PaginationMeta
}

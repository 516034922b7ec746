package directory

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	ErrNotFound     = errors.New("directory entry not found")
	ErrDuplicate    = errors.New("directory entry already exists")
	ErrInvalidSort  = errors.New("invalid sort field")
	ErrInvalidInput = errors.New("invalid input")
)

type Kind string

const (
	KindUniversity Kind = "universities"
	KindCompany    Kind = "companies"
)

type University struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Website   string    `json:"website"`
	WorldRank *int      `json:"world_rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Company struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry"`
	Headquarters string    `json:"headquarters"`
	Website      string    `json:"website"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// sortable columns per kind, keyed by the public sort name.
var sortColumns = map[Kind]map[string]string{
	KindUniversity: {
		"name":       "name",
		"created_at": "created_at",
		"world_rank": "world_rank",
		"city":       "city",
	},
	KindCompany: {
		"name":       "name",
		"created_at": "created_at",
		"industry":   "industry",
	},
}

type ListParams struct {
	Query  string
	Sort   string
	Limit  int
	Offset int
}

// Sort is a validated ORDER BY target.
type Sort struct {
	Column string
	Desc   bool
}

func (s Sort) SQL() string {
	if s.Desc {
		return s.Column + " DESC NULLS LAST"
	}
	return s.Column + " ASC NULLS LAST"
}

// Normalize clamps paging and resolves the sort against the kind's whitelist.
// An empty sort orders by name.
func (p ListParams) Normalize(kind Kind) (ListParams, Sort, error) {
	p.Query = strings.TrimSpace(p.Query)
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	raw := strings.TrimSpace(p.Sort)
	if raw == "" {
		raw = "name"
	}
	desc := strings.HasPrefix(raw, "-")
	name := strings.TrimPrefix(raw, "-")

	col, ok := sortColumns[kind][name]
	if !ok {
		return ListParams{}, Sort{}, ErrInvalidSort
	}
	p.Sort = raw
	return p, Sort{Column: col, Desc: desc}, nil
}

type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

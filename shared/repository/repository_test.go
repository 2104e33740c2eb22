package repository

import (
	"reflect"
	"stayfinder/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stamp struct {
	CreatedAt time.Time `db:"created_at"`
}

type stay struct {
	ID           string  `db:"id"`
	ListingID    string  `db:"listing_id"`
	ListingTitle *string `column:"title" db:"listing_title" table:"listings"`
	Ignored      string
	stamp
}

func (stay) GetJoinQuery() string {
	return "LEFT JOIN listings ON listings.id = stays.listing_id"
}

func TestGetColumns(t *testing.T) {
	columns, insert := getColumns("stays", reflect.TypeOf(stay{}))

	assert.Equal(t, []string{"id", "listing_id", "created_at"}, insert)
	assert.Equal(t, []column{
		{name: "id", table: "stays"},
		{name: "listing_id", table: "stays"},
		{name: "title", table: "listings", alias: "listing_title"},
		{name: "created_at", table: "stays"},
	}, columns)
}

func TestNewRepository_Join(t *testing.T) {
	repo := NewRepository[stay]("stay", "stays", "id", nil, nil)

	assert.Equal(t, "LEFT JOIN listings ON listings.id = stays.listing_id", repo.join)
	assert.Equal(t,
		"SELECT stays.id, listings.title AS listing_title FROM stays LEFT JOIN listings ON listings.id = stays.listing_id  WHERE x ",
		repo.selectQuery(" WHERE x ", []string{"id", "title"}),
	)
}

func TestInsertQuery(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO bookings (id, status) VALUES (:id, :status)",
		insertQuery("bookings", []string{"id", "status"}),
	)
}

func TestUpdateQuery(t *testing.T) {
	query := updateQuery("listings", map[string]any{"is_archived": true, "archived_at": nil}, " WHERE (listings.id = :id) ")

	assert.Equal(t, "UPDATE listings SET archived_at = :archived_at, is_archived = :is_archived  WHERE (listings.id = :id) ", query)
}

func TestPageClause(t *testing.T) {
	tests := []struct {
		name     string
		params   dto.QueryParams
		expected string
		args     map[string]any
	}{
		{
			name:     "page and limit",
			params:   dto.QueryParams{Page: 3, Limit: 10},
			expected: "LIMIT :limit OFFSET :offset",
			args:     map[string]any{"limit": 10, "offset": 20},
		},
		{
			name:     "limit only",
			params:   dto.QueryParams{Limit: 5},
			expected: "LIMIT :limit",
			args:     map[string]any{"limit": 5},
		},
		{
			name:     "unbounded",
			params:   dto.QueryParams{},
			expected: "",
			args:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}

			assert.Equal(t, tt.expected, pageClause(tt.params, args))
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Empty(t, orderClause(dto.QueryParams{SortBy: "listings.title"}))
	assert.Equal(t, "ORDER BY bookings.check_in_date ASC",
		orderClause(dto.QueryParams{SortBy: "bookings.check_in_date", SortDir: dto.SortDirAsc}))
}

func TestBuildWhereClause(t *testing.T) {
	repo := NewRepository[stay]("stay", "stays", "id", nil, nil)

	where, args := repo.BuildWhereClause(t.Context(), dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = repo.BuildWhereClause(t.Context(), dto.And(dto.Eq("stays", "id", "s-1")))
	assert.Equal(t, " WHERE (stays.id = :id) ", where)
	assert.Equal(t, map[string]any{"id": "s-1"}, args)
}

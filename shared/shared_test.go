package shared_test

import (
	"stayfinder/shared"
	"stayfinder/shared/constant"
	"stayfinder/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertStringToBool(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "absent", input: "", expected: nil},
		{name: "true", input: "true", expected: &yes},
		{name: "false", input: "false", expected: &no},
		{name: "numeric true", input: "1", expected: &yes},
		{name: "numeric false", input: "0", expected: &no},
		{name: "upper case", input: "TRUE", expected: &yes},
		{name: "malformed", input: "unseen", expected: nil},
		{name: "padded", input: " true", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "no listings", total: 0, limit: 10, expected: 1},
		{name: "no limit", total: 25, limit: 0, expected: 1},
		{name: "negative limit", total: 25, limit: -5, expected: 1},
		{name: "exact pages", total: 30, limit: 10, expected: 3},
		{name: "partial last page", total: 31, limit: 10, expected: 4},
		{name: "fewer than a page", total: 3, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

type listingPatch struct {
	Title         *string  `db:"title"`
	PricePerNight *float64 `db:"price_per_night"`
	MaxGuests     *int     `db:"max_guests"`
	Note          string
	Internal      string `db:"-"`
}

func TestTransformFields(t *testing.T) {
	title := "Cliff house"
	price := 0.0

	tests := []struct {
		name     string
		data     any
		expected map[string]any
	}{
		{
			name: "set pointers are kept even when they point at zero",
			data: listingPatch{Title: &title, PricePerNight: &price, Note: "n", Internal: "i"},
			expected: map[string]any{
				"title":           &title,
				"price_per_night": &price,
			},
		},
		{
			name:     "empty patch only stamps the modification",
			data:     listingPatch{},
			expected: map[string]any{},
		},
		{
			name:     "pointer to struct",
			data:     &listingPatch{Title: &title},
			expected: map[string]any{"title": &title},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data, "host-1")

			assert.Equal(t, "host-1", result[constant.FieldModifiedBy])

			modifiedAt, ok := result[constant.FieldModifiedAt].(time.Time)
			require.True(t, ok)
			assert.False(t, modifiedAt.IsZero())

			delete(result, constant.FieldModifiedAt)
			delete(result, constant.FieldModifiedBy)

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("b-1", "id", "bookings")

	assert.Equal(t, dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Table: "bookings", Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq},
		},
	}, group)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{name: "prefix only", prefix: "limiter", expected: "limiter"},
		{name: "with parts", prefix: "limiter", parts: []string{"10.0.0.1", "curl/8.0"}, expected: "limiter:10.0.0.1:curl/8.0"},
		{name: "empty parts are skipped", prefix: "limiter", parts: []string{"", "10.0.0.1"}, expected: "limiter:10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.BuildCacheKey(tt.prefix, tt.parts...))
		})
	}
}

package shared

import (
	"math"
	"reflect"
	"stayfinder/shared/constant"
	"stayfinder/shared/dto"
	"stayfinder/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ConvertStringToBool parses an optional boolean query value. Empty or malformed input yields nil.
func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Msg("ignoring malformed boolean")

		return nil
	}

	return &parsed
}

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return int(math.Ceil(float64(total) / float64(limit)))
}

// TransformFields turns a patch struct into update columns keyed by `db` tag. Zero fields
// are left out, so a nil pointer means "unchanged". The modification stamp is always set.
func TransformFields(data any, actor string) map[string]any {
	val := reflect.Indirect(reflect.ValueOf(data))
	typ := val.Type()

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	for i := range val.NumField() {
		column := typ.Field(i).Tag.Get("db")
		if column == "" || column == "-" {
			continue
		}

		if field := val.Field(i); !field.IsZero() {
			fields[column] = field.Interface()
		}
	}

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.And(dto.Eq(table, fieldID, id))
}

// BuildCacheKey joins a prefix and its parts into a colon separated key, skipping empty parts.
func BuildCacheKey(prefix string, parts ...string) string {
	segments := []string{prefix}

	for _, part := range parts {
		if part == "" {
			continue
		}

		segments = append(segments, part)
	}

	return strings.Join(segments, ":")
}

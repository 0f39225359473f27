package mapping

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/qerrors"
)

// FormatValue converts a runtime value to its canonical JSON scalar:
//   - nil and nil pointers stay nil,
//   - enums format per the configured enum format,
//   - times serialize as RFC 3339 in UTC,
//   - decimals become JSON numbers with their exact representation,
//   - analyzed strings are lower-cased under the configured culture so the
//     emitted term matches the index's analyzed tokens.
func (m *DefaultMapping) FormatValue(member expr.Member, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
		value = rv.Interface()
	}

	if e, ok := value.(Enum); ok {
		return m.formatEnum(member, e, rv)
	}

	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case decimal.Decimal:
		return json.Number(v.String()), nil
	case uuid.UUID:
		return v.String(), nil
	case string:
		if NotAnalyzed(member) {
			return v, nil
		}
		// A fresh caser per call: cases.Caser carries transform state and is
		// not safe for concurrent use.
		return cases.Lower(m.culture).String(v), nil
	}

	return value, nil
}

func (m *DefaultMapping) formatEnum(member expr.Member, e Enum, rv reflect.Value) (interface{}, error) {
	if m.enumFormat == EnumFormatString {
		name, ok := e.EnumName()
		if !ok {
			return nil, qerrors.ValueOutOfRangef("value %v is not defined on enum %s for member %s",
				rv.Interface(), rv.Type(), member.Name)
		}
		return name, nil
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	}
	return rv.Interface(), nil
}

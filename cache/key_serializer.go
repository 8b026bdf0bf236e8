package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return defaultKeySerializer{}
}

// SerializeKey joins the method and the serialized args with KeySeparator,
// so "breed.FindBySpecies" with arg 3 becomes "breed.FindBySpecies::3". Keys
// sharing a method therefore share a prefix, which DeleteByPrefix relies on.
func (s defaultKeySerializer) SerializeKey(method string, args ...any) string {
	var b strings.Builder
	b.WriteString(method)
	for _, arg := range args {
		b.WriteString(KeySeparator)
		b.WriteString(segment(arg))
	}
	return b.String()
}

// segment renders one argument. Identifiers and dates, the arguments the
// catalogs actually pass, take the fast path.
func segment(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "nil"
		}
		return segment(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = segment(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ",") + "]"
	case reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T", v)
	}
	return "json:" + string(data)
}

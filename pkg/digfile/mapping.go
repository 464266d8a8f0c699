package digfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Entry is one key/value pair of a [Mapping].
type Entry struct {
	Key   string
	Value any
}

// Mapping is a YAML mapping with its declaration order preserved.
type Mapping []Entry

// Get returns the value stored under key.
func (m Mapping) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in declaration order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON encodes the mapping as a JSON object in declaration order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeJSON(&buf, m, ",", ":")
	return buf.Bytes(), nil
}

// Format renders v for display: strings are returned as-is and everything
// else is encoded as JSON with ", " and ": " separators.
func Format(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return FormatJSON(v)
}

// FormatJSON renders v as JSON with ", " and ": " separators. Strings are
// quoted.
func FormatJSON(v any) string {
	var buf bytes.Buffer
	writeJSON(&buf, v, ", ", ": ")
	return buf.String()
}

func writeJSON(buf *bytes.Buffer, v any, comma, colon string) {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case Mapping:
		buf.WriteByte('{')
		for i, e := range x {
			if i > 0 {
				buf.WriteString(comma)
			}
			writeString(buf, e.Key)
			buf.WriteString(colon)
			writeJSON(buf, e.Value, comma, colon)
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteString(comma)
			}
			writeJSON(buf, item, comma, colon)
		}
		buf.WriteByte(']')
	case string:
		writeString(buf, x)
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
	case int:
		buf.WriteString(strconv.Itoa(x))
	case float64:
		buf.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	default:
		writeString(buf, fmt.Sprint(x))
	}
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.WriteString(strings.TrimSuffix(tmp.String(), "\n"))
}

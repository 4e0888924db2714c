package db

import (
	"fmt"
	"time"
)

// convertValue maps a scanned database value to a JSON-safe value. The
// precedence is fixed: nil, bool, integer kinds to int64, float kinds to
// float64, timestamps to RFC 3339 strings, byte slices to strings, and
// anything else through fmt.Sprint. Decimal types surface as strings so
// money amounts never lose precision in transit.
func convertValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

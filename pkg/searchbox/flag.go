package searchbox

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Flag normalizes a boolean-like value. Servers and presets send native
// booleans, numbers or strings such as "1", "0", "yes" and "off".
func Flag(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "0", "false", "no", "off":
			return false
		case "true", "yes", "on":
			return true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return err == nil && f != 0
	}
	return false
}

// Int normalizes a numeric value, returning def when v is missing or not a number.
func Int(v any, def int) int {
	switch x := v.(type) {
	case float64:
		return clampInt(x)
	case int:
		return x
	case int64:
		return clampInt(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return clampInt(f)
		}
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return clampInt(f)
		}
	}
	return def
}

func clampInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

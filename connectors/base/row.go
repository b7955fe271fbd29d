// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one result row keyed by column name. Connectors store text columns
// as string, never []byte.
type Row map[string]interface{}

// Has reports whether the column is present and non-NULL
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// String returns the column rendered as text
func (r Row) String(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case time.Time:
		return t.Format("2006-01-02"), true
	default:
		return fmt.Sprint(t), true
	}
}

// Int returns the column as an integer
func (r Row) Int(col string) (int64, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		return int64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return n, true
	case []byte:
		return Row{col: string(t)}.Int(col)
	}
	return 0, false
}

// Float returns the column as a float
func (r Row) Float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case []byte:
		return Row{col: string(t)}.Float(col)
	}
	return 0, false
}

// Bool returns the column as a boolean. Integer flags are true when non-zero.
func (r Row) Bool(col string) bool {
	v, ok := r[col]
	if !ok || v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "t", "si", "sí", "s", "y", "yes":
			return true
		}
	}
	n, ok := r.Int(col)
	return ok && n != 0
}

// Normalize returns the column value with driver-specific types flattened
// for serialization: []byte becomes string, time.Time an ISO date.
func (r Row) Normalize(col string) interface{} {
	v, ok := r[col]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	}
	return v
}

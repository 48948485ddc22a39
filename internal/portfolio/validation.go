package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrInvalidBody is returned when the request body is not a JSON object.
	ErrInvalidBody = errors.New("request body must be a JSON object")
	// ErrMissingFields is returned when assetType, value or month is absent or empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrNonNumericValue is returned when value cannot be read as a number.
	ErrNonNumericValue = errors.New("value must be numeric")
)

// DecodeSubmission parses and validates a raw request body.
func DecodeSubmission(body []byte) (Submission, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return Submission{}, ErrInvalidBody
	}
	if dec.More() {
		return Submission{}, ErrInvalidBody
	}

	assetType, okAsset := nonEmptyString(fields["assetType"])
	month, okMonth := nonEmptyString(fields["month"])
	rawValue, hasValue := fields["value"]
	if !okAsset || !okMonth || !hasValue || rawValue == nil {
		return Submission{}, ErrMissingFields
	}

	value, err := ParseValue(rawValue)
	if err != nil {
		return Submission{}, err
	}

	return Submission{AssetType: assetType, Value: value, Month: month}, nil
}

// ParseValue coerces a decoded JSON value to float64. Numbers and numeric
// strings are accepted, as are booleans (1 and 0). Zero is a valid value.
func ParseValue(v any) (float64, error) {
	switch val := v.(type) {
	case json.Number:
		return parseFloat(val.String())
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		return parseFloat(strings.TrimSpace(val))
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, ErrNonNumericValue
	}
}

// parseFloat reads decimal float syntax, including inf and nan. Magnitudes
// beyond float64 saturate to ±Inf instead of failing; hex floats are rejected.
func parseFloat(s string) (float64, error) {
	if s == "" || isHexLiteral(s) {
		return 0, ErrNonNumericValue
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return f, nil
		}
		return 0, ErrNonNumericValue
	}
	return f, nil
}

func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

// Package codec holds the JSON configuration and lenient wire types shared by
// the snapshot loader and the bid stream decoder.
package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// JSON is the decoder used for backend payloads.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Decimal accepts a JSON number or a numeric string.
// Backends serializing decimal columns send prices as strings.
// NaN and infinities are rejected.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	f, err := parseNumber(data, func(s string) (float64, error) {
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return 0, fmt.Errorf("not a finite amount")
		}
		return v, err
	})
	if err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

// ID accepts an integer identifier as a JSON number or string.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	n, err := parseNumber(data, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	if err != nil {
		return err
	}
	*id = ID(n)
	return nil
}

func parseNumber[T int64 | float64](data []byte, parse func(string) (T, error)) (T, error) {
	var zero T
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return zero, nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = bytes.TrimSpace(raw[1 : len(raw)-1])
	}
	v, err := parse(string(raw))
	if err != nil {
		return zero, fmt.Errorf("codec: invalid number %s: %w", data, err)
	}
	return v, nil
}

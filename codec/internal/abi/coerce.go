package abi

import (
	"math"
	"reflect"
)

// CoerceUnsigned converts any Go integer, or an integral float as produced by
// JSON and YAML decoders, to a uint64 no larger than max. numeric is false
// when value is not a number at all.
func CoerceUnsigned(value any, max uint64) (v uint64, numeric, ok bool) {
	switch x := value.(type) {
	case uint64:
		return x, true, x <= max
	case int:
		return uint64(x), true, x >= 0 && uint64(x) <= max
	case float64:
		return coerceFloatUnsigned(x, max)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		return u, true, u <= max
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return uint64(i), true, i >= 0 && uint64(i) <= max
	case reflect.Float32, reflect.Float64:
		return coerceFloatUnsigned(rv.Float(), max)
	}
	return 0, false, false
}

// CoerceSigned converts value to an int64 in [min, max].
func CoerceSigned(value any, min, max int64) (v int64, numeric, ok bool) {
	switch x := value.(type) {
	case int64:
		return x, true, x >= min && x <= max
	case int:
		return int64(x), true, int64(x) >= min && int64(x) <= max
	case float64:
		return coerceFloatSigned(x, min, max)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return i, true, i >= min && i <= max
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, true, false
		}
		return int64(u), true, int64(u) >= min && int64(u) <= max
	case reflect.Float32, reflect.Float64:
		return coerceFloatSigned(rv.Float(), min, max)
	}
	return 0, false, false
}

func coerceFloatUnsigned(f float64, max uint64) (uint64, bool, bool) {
	if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
		return 0, true, false
	}
	u := uint64(f)
	return u, true, u <= max
}

func coerceFloatSigned(f float64, min, max int64) (int64, bool, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, true, false
	}
	i := int64(f)
	return i, true, i >= min && i <= max
}

// UnsignedMax returns the largest value of an unsigned integer of width bytes.
func UnsignedMax(width int) uint64 {
	if width >= 8 {
		return math.MaxUint64
	}
	return 1<<(8*uint(width)) - 1
}

// SignedRange returns the bounds of a two's complement integer of width bytes.
func SignedRange(width int) (int64, int64) {
	if width >= 8 {
		return math.MinInt64, math.MaxInt64
	}
	bits := 8*uint(width) - 1
	return -1 << bits, 1<<bits - 1
}

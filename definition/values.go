package definition

import (
	"fmt"
	"math"
	"strconv"
)

const maxWholeValue = float64(1 << 63)

// Values decoded from JSON arrive as float64, while YAML integers arrive as
// int. The accessors below accept either.

func Float(key string, dict map[string]interface{}, defaultValue float64) (float64, error) {
	curVal, curValOk := dict[key]
	if !curValOk || curVal == nil {
		return defaultValue, nil
	}
	switch typedVal := curVal.(type) {
	case float64:
		return typedVal, nil
	case int:
		return float64(typedVal), nil
	case int64:
		return float64(typedVal), nil
	case uint64:
		return float64(typedVal), nil
	case string:
		parsed, parseErr := strconv.ParseFloat(typedVal, 64)
		if parseErr != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, parseErr)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("invalid type for %s: %T", key, curVal)
	}
}

func Uint(key string, dict map[string]interface{}, defaultValue uint64) (uint64, error) {
	floatVal, floatErr := Float(key, dict, float64(defaultValue))
	if floatErr != nil {
		return 0, floatErr
	}
	if floatVal < 0 {
		return 0, fmt.Errorf("invalid negative value for %s: %v", key, floatVal)
	}
	if floatVal != math.Trunc(floatVal) {
		return 0, fmt.Errorf("invalid whole number for %s: %v", key, floatVal)
	}
	// Below 2^63 the value fits both uint64 and int
	if floatVal >= maxWholeValue {
		return 0, fmt.Errorf("value out of range for %s: %v", key, floatVal)
	}
	return uint64(floatVal), nil
}

func String(key string, dict map[string]interface{}) string {
	curVal, curValOk := dict[key]
	if !curValOk {
		curVal = ""
	}
	strVal, _ := curVal.(string)
	return strVal
}

func Boolean(key string, dict map[string]interface{}) bool {
	// By default, an empty string is false
	boolVal := false
	curVal, curValOk := dict[key]
	if !curValOk {
		curVal = ""
	}
	boolVal, _ = strconv.ParseBool(fmt.Sprintf("%v", curVal))
	return boolVal
}

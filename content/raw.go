package content

import (
	"strings"
)

// Raw the untyped bundle as it comes out of the json decoder
type Raw = map[string]interface{}

// Object returns v as json object
func Object(v interface{}) (Raw, bool) {
	o, ok := v.(map[string]interface{})
	return o, ok
}

// Array returns v as json array
func Array(v interface{}) ([]interface{}, bool) {
	a, ok := v.([]interface{})
	return a, ok
}

// Field returns the value of key when v is an object
func Field(v interface{}, key string) interface{} {
	o, ok := Object(v)
	if !ok {
		return nil
	}
	return o[key]
}

// Truthy mirrors what a json consumer would consider "set": null, "", false
// and 0 are not
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// Blank a missing value or a string that only contains whitespace
func Blank(v interface{}) bool {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return !Truthy(v)
}

// String returns v if it is a string
func String(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

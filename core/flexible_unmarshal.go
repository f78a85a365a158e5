package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	timeType        = reflect.TypeOf(time.Time{})
)

// FlexibleUnmarshal unmarshals JSON with lenient type conversion driven by the
// target struct:
//   - numbers and booleans bound for string fields become strings;
//   - booleans arriving as 0/1, "true"/"false"/"1"/"0" or native bool become bool
//     (see ParseSafeBool); unparseable values leave the field at false;
//   - numeric strings bound for number fields become numbers;
//   - a non-object token bound for a struct field is dropped, so the field keeps
//     its zero value. Types implementing json.Unmarshaler decide for themselves;
//   - timestamps that are not RFC 3339 strings are dropped.
//
// Fields absent from the JSON keep their zero value and unknown keys are ignored.
func FlexibleUnmarshal(data []byte, target interface{}) error {
	var rawData map[string]interface{}
	if err := json.Unmarshal(data, &rawData); err != nil {
		return err
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer")
	}
	targetElem := targetValue.Elem()
	if targetElem.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	convertedData := convertMapToStruct(rawData, targetElem.Type())

	convertedJSON, err := json.Marshal(convertedData)
	if err != nil {
		return err
	}

	return json.Unmarshal(convertedJSON, target)
}

// ParseSafeBool reads a boolean that may arrive as a native bool, a number
// (non-zero is true) or a string accepted by strconv.ParseBool. The second
// result is false when the value cannot be interpreted.
func ParseSafeBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// convertMapToStruct recursively converts map values to match struct field types
func convertMapToStruct(data map[string]interface{}, structType reflect.Type) map[string]interface{} {
	result := make(map[string]interface{})

	for key, value := range data {
		field, found := findFieldByJSONTag(structType, key)
		if !found {
			result[key] = value
			continue
		}
		result[key] = convertValue(value, field.Type)
	}

	return result
}

// convertValue converts a value to match the target type
func convertValue(value interface{}, targetType reflect.Type) interface{} {
	if value == nil {
		return nil
	}
	if targetType.Kind() == reflect.Ptr {
		return convertValue(value, targetType.Elem())
	}
	if targetType == timeType {
		// Unparseable timestamps ("", "n/a") leave the field zero.
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return nil
		}
		return s
	}
	if targetType.Implements(unmarshalerType) || reflect.PointerTo(targetType).Implements(unmarshalerType) {
		return value
	}

	switch targetType.Kind() {
	case reflect.String:
		return convertToString(value)
	case reflect.Bool:
		if b, ok := ParseSafeBool(value); ok {
			return b
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return convertToNumber(value)
	case reflect.Slice:
		if arr, ok := value.([]interface{}); ok {
			result := make([]interface{}, len(arr))
			elemType := targetType.Elem()
			for i, item := range arr {
				result[i] = convertValue(item, elemType)
			}
			return result
		}
		return nil
	case reflect.Map:
		if m, ok := value.(map[string]interface{}); ok {
			result := make(map[string]interface{}, len(m))
			for k, item := range m {
				result[k] = convertValue(item, targetType.Elem())
			}
			return result
		}
		return nil
	case reflect.Struct:
		if m, ok := value.(map[string]interface{}); ok {
			return convertMapToStruct(m, targetType)
		}
		return nil
	}

	return value
}

// convertToString converts any value to a string
func convertToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// Check if it's an integer value
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	case map[string]interface{}, []interface{}:
		b, _ := json.Marshal(v)
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func convertToNumber(value interface{}) interface{} {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return nil
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	}
	return nil
}

// findFieldByJSONTag finds a struct field by its JSON tag, descending into
// embedded structs the way encoding/json promotes their fields.
func findFieldByJSONTag(structType reflect.Type, jsonTag string) (reflect.StructField, bool) {
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" {
			if field.Anonymous {
				if f, ok := findFieldByJSONTag(field.Type, jsonTag); ok {
					return f, true
				}
			}
			continue
		}

		// Remove options like ",omitempty"
		tagName := strings.Split(tag, ",")[0]
		if tagName == jsonTag {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

package types

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/toolbox"
)

// Text coerces an agent or supervisor return value into plain text. Agents
// are free to return strings, byte slices, stringers, content-block maps or
// structs with a Text/Output field; anything else is stringified.
func Text(value interface{}) string {
	switch actual := value.(type) {
	case nil:
		return ""
	case string:
		return actual
	case []byte:
		return string(actual)
	case fmt.Stringer:
		return actual.String()
	case map[string]interface{}:
		if text, ok := actual["text"].(string); ok {
			return text
		}
		if output, ok := actual["output"]; ok {
			return Text(output)
		}
	case []interface{}:
		// content-block style response: concatenate text fragments
		var builder strings.Builder
		for _, item := range actual {
			block, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if text, ok := block["text"].(string); ok {
				builder.WriteString(text)
			}
		}
		return builder.String()
	}
	if text, ok := fieldText(value); ok {
		return text
	}
	return toolbox.AsString(value)
}

// fieldText looks for a conventional Text or Output field on struct values.
func fieldText(value interface{}) (string, bool) {
	rValue := reflect.ValueOf(value)
	if rValue.Kind() == reflect.Ptr {
		if rValue.IsNil() {
			return "", false
		}
		rValue = rValue.Elem()
	}
	if rValue.Kind() != reflect.Struct {
		return "", false
	}
	for _, name := range []string{"Text", "Output"} {
		field := rValue.FieldByName(name)
		if field.IsValid() && field.Kind() == reflect.String {
			return field.String(), true
		}
	}
	return "", false
}

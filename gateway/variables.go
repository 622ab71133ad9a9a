package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSerialization is returned when a variable payload cannot be encoded
// as a JSON text document.
var ErrSerialization = errors.New("gateway: variables not representable as JSON")

// MarshalVariables encodes a caller-supplied variable payload into the JSON
// text document the gateway expects. Strings pass through unchanged (they
// are assumed to already be JSON text); nil becomes the empty document;
// anything else is JSON-encoded. The reverse direction is intentionally
// absent: response variable fields stay raw JSON text and callers parse
// them explicitly.
func MarshalVariables(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case []byte:
		return string(value), nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return string(data), nil
	}
}

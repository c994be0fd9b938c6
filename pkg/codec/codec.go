package codec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode is ToCore_Decode: it round-trips data through JSON into out,
// then validates out's struct tags. A shape mismatch — wrong type,
// missing required field — is returned as a descriptive error, never
// a panic on a signature mismatch between the map and the target struct.
func Decode(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("codec: re-marshal wire data: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("codec: decode into %T: %w", out, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("codec: validation failed: %w", err)
	}
	return nil
}

// Encode is FromCore_Encode: it round-trips v through JSON into a
// plain map, so no Go-only type (channel, func, unexported field)
// survives onto the wire.
func Encode(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %T: %w", v, err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("codec: unmarshal to map: %w", err)
	}
	return out, nil
}

// EncodeObjectIDMap renders a map keyed by numeric object ID as a
// wire-safe map[string]interface{}, the decimal string form JSON
// object keys require.
func EncodeObjectIDMap[V any](m map[uint64]V) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for id, v := range m {
		out[strconv.FormatUint(id, 10)] = v
	}
	return out
}

// DecodeObjectIDMap recovers a map[uint64]interface{} from the
// wire's map[string]interface{} keying, so handlers can decode each
// value into its own typed payload without losing the numeric key.
func DecodeObjectIDMap(data map[string]interface{}) (map[uint64]interface{}, error) {
	out := make(map[uint64]interface{}, len(data))
	for k, v := range data {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("codec: object ID key %q is not an integer: %w", k, err)
		}
		out[id] = v
	}
	return out, nil
}

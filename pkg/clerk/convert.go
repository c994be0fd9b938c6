package clerk

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/azrael-sim/clerk/pkg/store"
)

// toDoc renders any JSON-taggable value as a store.Doc via a JSON
// round-trip, the same reduction pkg/codec.Encode performs for wire
// responses: named types never reach the store as anything but plain
// maps.
func toDoc(v interface{}) (store.Doc, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("clerk: marshal %T: %w", v, err)
	}
	var doc store.Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("clerk: unmarshal to doc: %w", err)
	}
	return doc, nil
}

// fromDoc decodes a generic projected document back into a typed
// value using its "json" struct tags, so the same field names that
// govern wire shape also govern store projection paths. []byte fields
// (fragment data) arrive as the base64 strings toDoc's JSON round-trip
// produced and are decoded back to bytes.
func fromDoc(doc store.Doc, out interface{}) error {
	bytesType := reflect.TypeOf([]byte(nil))
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
		DecodeHook: mapstructure.DecodeHookFuncType(func(from, to reflect.Type, data interface{}) (interface{}, error) {
			if from.Kind() == reflect.String && to == bytesType {
				return base64.StdEncoding.DecodeString(data.(string))
			}
			return data, nil
		}),
	})
	if err != nil {
		return fmt.Errorf("clerk: build decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return fmt.Errorf("clerk: decode doc into %T: %w", out, err)
	}
	return nil
}

package clerk

import (
	"strconv"

	"github.com/azrael-sim/clerk/pkg/codec"
)

// decodeRequest is ToCore_Decode for handler request records: decode
// plus validator-driven shape checking, returning a descriptive error
// a handler can surface verbatim as the envelope's msg.
func decodeRequest(data map[string]interface{}, out interface{}) error {
	return codec.Decode(data, out)
}

// objIDKey renders an object ID as the document store's aid for the
// Instances collection.
func objIDKey(objID uint64) string {
	return strconv.FormatUint(objID, 10)
}

/*
Package codec implements Azrael's wire codec.

The source this repo generalizes from had four hand-written pure
functions per command (ToCore_Encode, ToCore_Decode, FromCore_Encode,
FromCore_Decode), operating only on primitive values and opaque
byte arrays. Per the redesign note in the original design, this
package derives that behavior once, generically, from a command's
request/response struct tags instead of by hand per command:

  - Decode (ToCore_Decode) turns a wire map[string]interface{} into a
    typed request record, via github.com/go-playground/validator/v10
    struct-tag validation of the result.
  - Encode (FromCore_Encode) turns a typed response record back into a
    wire-safe map[string]interface{} via a JSON round-trip, so no
    implementation type (channels, pointers, interfaces) ever leaks
    across the envelope.
  - EncodeObjectIDMap/DecodeObjectIDMap handle the recurring shape of
    a response keyed by object ID: JSON object keys are always
    strings, so the numeric objID must be explicitly recovered on
    decode and explicitly stringified on encode.

Named records are reduced to plain maps with declared fields; byte
slices route through Go's built-in base64 encoding in encoding/json,
matching the "opaque byte arrays, base64-wrapped" wire rule.
*/
package codec

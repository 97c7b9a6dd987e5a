package planc

import "encoding/json"

// marshalJSON is the one place the compiler itself encodes JSON: the
// master-hook array in C7 and ExecutionConfig.Serialize. State backends
// and master-hook factories serialize themselves through their own
// Serialize methods and do not go through it.
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

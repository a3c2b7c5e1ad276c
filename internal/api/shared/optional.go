package shared

import "encoding/json"

// Optional is a JSON field that distinguishes an absent key from an
// explicit null and from a concrete value.
type Optional[T any] struct {
	Value T
	Set   bool // key was present in the document
	Null  bool // key was present with a null value
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json calls it for
// present keys only, including those holding null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns a pointer to the value, or nil when the key was absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

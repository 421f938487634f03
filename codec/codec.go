// Package codec converts cache values to and from their storable byte form.
// Callers of the facade never see raw bytes; decode failures surface as
// asidecache.SerializationError and are treated as misses.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Package json wraps json-iterator in stdlib-compatible mode and applies
// declared struct defaults before encoding and decoding, so tagged zero
// values never leak onto the wire or out of a decode.
package json

import (
	"io"
	"reflect"

	"github.com/creasty/defaults"
	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// RawMessage delays decoding of a JSON fragment.
type RawMessage = jsoniter.RawMessage

// setDefaults fills `default:` tags on struct pointers. Anything else
// (maps, slices, scalars, non-pointer structs) passes through untouched;
// defaults.Set rejects those, so the shape check happens here.
func setDefaults(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	return defaults.Set(v)
}

// Marshal encodes v after applying its declared defaults.
func Marshal(v any) ([]byte, error) {
	if err := setDefaults(v); err != nil {
		return nil, err
	}
	return api.Marshal(v)
}

// MarshalIndent encodes v with indentation after applying its defaults.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	if err := setDefaults(v); err != nil {
		return nil, err
	}
	return api.MarshalIndent(v, prefix, indent)
}

// MarshalToString encodes v to a string after applying its defaults.
func MarshalToString(v any) (string, error) {
	if err := setDefaults(v); err != nil {
		return "", err
	}
	return api.MarshalToString(v)
}

// Unmarshal applies v's declared defaults, then decodes data over them, so
// absent fields keep their defaults and present fields override.
func Unmarshal(data []byte, v any) error {
	if err := setDefaults(v); err != nil {
		return err
	}
	return api.Unmarshal(data, v)
}

// UnmarshalFromString decodes a string the same way Unmarshal does.
func UnmarshalFromString(data string, v any) error {
	if err := setDefaults(v); err != nil {
		return err
	}
	return api.UnmarshalFromString(data, v)
}

// Valid reports whether data is well-formed JSON.
func Valid(data []byte) bool {
	return api.Valid(data)
}

// Encoder writes JSON values to a stream, applying defaults first.
type Encoder struct {
	enc *jsoniter.Encoder
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: api.NewEncoder(w)}
}

// SetIndent configures pretty output.
func (e *Encoder) SetIndent(prefix, indent string) {
	e.enc.SetIndent(prefix, indent)
}

// Encode writes one value.
func (e *Encoder) Encode(v any) error {
	if err := setDefaults(v); err != nil {
		return err
	}
	return e.enc.Encode(v)
}

// Decoder reads JSON values from a stream, applying defaults first.
type Decoder struct {
	dec *jsoniter.Decoder
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: api.NewDecoder(r)}
}

// Decode reads one value over v's defaults.
func (d *Decoder) Decode(v any) error {
	if err := setDefaults(v); err != nil {
		return err
	}
	return d.dec.Decode(v)
}

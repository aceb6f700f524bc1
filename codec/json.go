package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec. The most portable option: any
// downstream tool that reads JSON can consume artifacts written with it.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// JSONIndent writes two-space-indented JSON for artifacts meant to be read by
// people. Decoding is identical to JSON.
type JSONIndent struct{}

// Marshal encodes the value to indented JSON.
func (JSONIndent) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

// Unmarshal decodes the JSON data into v.
func (JSONIndent) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json-indent").
func (JSONIndent) Name() string { return "json-indent" }

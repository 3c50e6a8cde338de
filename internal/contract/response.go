package contract

import (
	"bytes"
	"encoding/json"
)

// JSON decodes the body the way the suite's assertions expect: numbers stay
// json.Number, and an empty or non-JSON body reads as the empty object.
func (r *Response) JSON() any {
	return decodeBody(r.Body)
}

func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return map[string]any{}
	}
	if dec.More() {
		return map[string]any{}
	}
	if v == nil {
		return map[string]any{}
	}
	return v
}

// PetID extracts the numeric id field of an object body.
func (r *Response) PetID() (int64, bool) {
	obj, ok := r.JSON().(map[string]any)
	if !ok {
		return 0, false
	}
	n, ok := obj["id"].(json.Number)
	if !ok {
		return 0, false
	}
	id, err := n.Int64()
	return id, err == nil
}

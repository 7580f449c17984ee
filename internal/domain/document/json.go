package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/docgate/internal/domain"
)

// DecodeJSON decodes JSON text into ordered store values: objects become bson.D,
// arrays bson.A, integral numbers int64 and other numbers float64.
// Extended JSON wrappers such as {"$date": ...} are kept as plain objects.
func DecodeJSON(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, domain.ErrInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidJSON, err)
	}
	return v, nil
}

// MarshalJSON encodes store values as relaxed extended JSON.
func MarshalJSON(v any) ([]byte, error) {
	data, err := bson.MarshalExtJSON(v, false, false)
	if err != nil {
		return nil, fmt.Errorf("marshal extjson: %w", err)
	}
	return data, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case json.Number:
		return decodeNumber(t), nil
	case string:
		return t, nil
	case bool:
		return t, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (bson.D, error) {
	d := bson.D{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		d = Set(d, key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("close object: %w", err)
	}
	return d, nil
}

func decodeArray(dec *json.Decoder) (bson.A, error) {
	a := bson.A{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", len(a), err)
		}
		a = append(a, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("close array: %w", err)
	}
	return a, nil
}

func decodeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, _ := n.Float64() // out-of-range values saturate to ±Inf
	return f
}

package domain

import (
	"encoding/json"
	"fmt"
)

// EncodeValue serializes a value for the durable log.
func EncodeValue(v Value) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

// DecodeValue deserializes a value from the durable log. Numbers come
// back as float64, per JSON.
func DecodeValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

// EncodeState serializes a keyframe state map keyed by dotted paths.
func EncodeState(state map[Path]Value) ([]byte, error) {
	flat := make(map[string]Value, len(state))
	for p, v := range state {
		flat[p.String()] = v
	}
	data, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// DecodeState deserializes a keyframe state map.
func DecodeState(data []byte) (map[Path]Value, error) {
	if len(data) == 0 {
		return map[Path]Value{}, nil
	}
	var flat map[string]Value
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	state := make(map[Path]Value, len(flat))
	for key, v := range flat {
		p, err := ParsePath(key)
		if err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
		state[p] = v
	}
	return state, nil
}

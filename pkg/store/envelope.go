package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is the envelope schema written by this build.
const SchemaVersion = 1

// ReadState tells apart the ways a stored payload can decode.
type ReadState int

const (
	StateMissing ReadState = iota
	StateOK
	// StateLegacy is a bare JSON array written before envelopes existed.
	StateLegacy
	StateMalformed
	// StateNewerSchema payloads are read best-effort; writes are refused.
	StateNewerSchema
)

func (s ReadState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateOK:
		return "ok"
	case StateLegacy:
		return "legacy"
	case StateMalformed:
		return "malformed"
	case StateNewerSchema:
		return "newer-schema"
	default:
		return fmt.Sprintf("ReadState(%d)", int(s))
	}
}

var errWrongShape = errors.New("payload is neither an envelope nor an array")

type collectionEnvelope[T any] struct {
	SchemaVersion int `json:"schema_version"`
	Items         []T `json:"items"`
}

type rawCollectionEnvelope struct {
	SchemaVersion *int               `json:"schema_version"`
	Items         *[]json.RawMessage `json:"items"`
}

func encodeItems[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(collectionEnvelope[T]{SchemaVersion: SchemaVersion, Items: items})
}

// decodeItems splits payload into raw items without decoding them, so a bad
// item costs only itself.
func decodeItems(payload []byte) ([]json.RawMessage, ReadState, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, StateMalformed, errors.New("empty payload")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, StateMalformed, err
		}
		return items, StateLegacy, nil
	case '{':
		var env rawCollectionEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, StateMalformed, err
		}
		if env.SchemaVersion == nil || env.Items == nil {
			return nil, StateMalformed, errWrongShape
		}
		if *env.SchemaVersion > SchemaVersion {
			return *env.Items, StateNewerSchema, nil
		}
		return *env.Items, StateOK, nil
	default:
		return nil, StateMalformed, errWrongShape
	}
}

type documentEnvelope[T any] struct {
	SchemaVersion int `json:"schema_version"`
	Value         T   `json:"value"`
}

type rawDocumentEnvelope struct {
	SchemaVersion *int            `json:"schema_version"`
	Value         json.RawMessage `json:"value"`
}

func encodeDocument[T any](v T) ([]byte, error) {
	return json.Marshal(documentEnvelope[T]{SchemaVersion: SchemaVersion, Value: v})
}

func decodeDocument[T any](payload []byte) (T, ReadState, error) {
	var zero T

	var env rawDocumentEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return zero, StateMalformed, err
	}
	if env.SchemaVersion == nil || len(env.Value) == 0 {
		return zero, StateMalformed, errWrongShape
	}

	var v T
	if err := json.Unmarshal(env.Value, &v); err != nil {
		return zero, StateMalformed, err
	}
	if *env.SchemaVersion > SchemaVersion {
		return v, StateNewerSchema, nil
	}
	return v, StateOK, nil
}

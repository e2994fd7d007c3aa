package gutendex

import (
	"encoding/json"

	lerrors "github.com/lepinkainen/literalura/internal/errors"
)

// Decode turns a raw Gutendex payload into BookRecord values. A payload
// without a top-level "results" field, or with an element that fails
// structural decoding, yields a MalformedResponseError.
func Decode(raw []byte) ([]BookRecord, error) {
	var envelope struct {
		Results *json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, lerrors.NewMalformedResponseError("response is not valid JSON", err)
	}
	if envelope.Results == nil {
		return nil, lerrors.NewMalformedResponseError(`response has no "results" field`, nil)
	}

	var records []BookRecord
	if err := json.Unmarshal(*envelope.Results, &records); err != nil {
		return nil, lerrors.NewMalformedResponseError("failed to decode results", err)
	}

	return records, nil
}

package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type choicesEnvelope struct {
	Choices []struct {
		Text *string `json:"text"`
	} `json:"choices"`
}

// EncodeOutput converts an LLM response into the opaque JSON value stored on
// the record. Raw JSON input is validated and compacted; anything else is
// marshaled.
func EncodeOutput(response any) (json.RawMessage, error) {
	var raw []byte
	switch v := response.(type) {
	case nil:
		return nil, fmt.Errorf("%w: response is nil", ErrMalformedResponse)
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	case string:
		if !json.Valid([]byte(v)) {
			return nil, fmt.Errorf("%w: response string is not JSON", ErrMalformedResponse)
		}
		raw = []byte(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding response: %v", ErrMalformedResponse, err)
		}
		return data, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("%w: invalid response JSON: %v", ErrMalformedResponse, err)
	}
	return buf.Bytes(), nil
}

// choiceText returns choices[0].text exactly as the provider returned it.
func choiceText(output json.RawMessage) (string, error) {
	var env choicesEnvelope
	if err := json.Unmarshal(output, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(env.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrMalformedResponse)
	}
	if env.Choices[0].Text == nil {
		return "", fmt.Errorf("%w: first choice has no text", ErrMalformedResponse)
	}
	return *env.Choices[0].Text, nil
}

// ResponseText returns the first-choice text of a stored output with
// surrounding whitespace removed.
func ResponseText(output json.RawMessage) (string, error) {
	text, err := choiceText(output)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ruaan-deysel/go-mcp-sdk/logger"
)

// Validator checks an encoded JSON-RPC record against the official MCP JSON
// schema before it is handed to the transport. It is feature-gated: a Codec
// with a nil Validator skips validation entirely.
type Validator interface {
	Validate(data []byte) error
}

// Codec serialises typed records to UTF-8 JSON on send and parses/deserialises
// on receive, propagating decode failures as KindCodec errors. An optional
// Validator runs a schema-validation pass over outbound bytes.
type Codec struct {
	Validator Validator
	log       *logger.Logger
}

// NewCodec builds a Codec. validator may be nil to disable schema validation.
func NewCodec(validator Validator) *Codec {
	return &Codec{Validator: validator, log: logger.Named("codec")}
}

// Encode marshals v to JSON and, if a Validator is configured, validates the
// result before returning it.
func (c *Codec) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, NewError(KindCodec, "Codec.Encode", err)
	}
	if c.Validator != nil {
		if err := c.Validator.Validate(data); err != nil {
			return nil, NewError(KindCodec, "Codec.Encode", fmt.Errorf("schema validation: %w", err))
		}
	}
	return data, nil
}

// Decode parses data into v. An empty or whitespace-only frame is the
// caller's responsibility to detect before calling Decode (see IsBlank).
func (c *Codec) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return NewError(KindCodec, "Codec.Decode", err)
	}
	return nil
}

// IsBlank reports whether a received frame is empty or whitespace-only,
// which the transport/codec boundary treats as "no message" rather than a
// parse error.
func IsBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}

// FrameKind classifies what shape an inbound frame is, without fully decoding it.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameRequest
	FrameResponse
	FrameErrorResponse
	FrameNotification
)

// Classify peeks at data's id/method/result/error members to determine
// which envelope kind it is, per the invariant that every wire message is
// exactly one of request/response/error-response/notification.
func Classify(data []byte) (FrameKind, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return FrameUnknown, NewError(KindCodec, "Classify", err)
	}
	hasID := env.ID != nil
	switch {
	case hasID && env.Method != "":
		return FrameRequest, nil
	case hasID && env.Error != nil:
		return FrameErrorResponse, nil
	case hasID:
		return FrameResponse, nil
	case env.Method != "":
		return FrameNotification, nil
	default:
		return FrameUnknown, NewError(KindCodec, "Classify", fmt.Errorf("frame matches no known envelope shape"))
	}
}

package transport

import "errors"

var (
	ErrInvalidBaseURL = errors.New("transport.invalid_base_url")
	ErrInvalidURL     = errors.New("transport.invalid_url")
	ErrEncodeBody     = errors.New("transport.encode_body_failed")
	ErrRequestFailed  = errors.New("transport.request_failed")
	ErrTimeout        = errors.New("transport.timeout")
)

package memstore

import "errors"

// ErrNoBaseURL indicates the client was constructed without a memory
// service URL.
var ErrNoBaseURL = errors.New("memory service base URL not configured")

// ErrMalformedPayload indicates the memory service returned a body that is
// neither a memories envelope nor a bare record list.
var ErrMalformedPayload = errors.New("malformed memory service payload")

package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Stores and services wrap these so handlers can map outcomes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrDispatch     = errors.New("dispatch failed")
)

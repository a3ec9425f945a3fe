// Package kv implements the durable string-keyed store backing all client
// state. Values are opaque byte slices; callers own the encoding.
package kv

import "context"

// Repository is the asynchronous key-value contract. Get returns (nil, nil)
// for a missing key so callers can distinguish "absent" from "failed".
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

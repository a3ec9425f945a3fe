package api

import "errors"

// The error taxonomy of the remote endpoints. Callers must be able to tell
// "the server took too long" from "the server is unreachable" from "the
// server answered but the answer is unusable".
var (
	ErrTimeout        = errors.New("request timed out")
	ErrUnreachable    = errors.New("server unreachable")
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrChatFailed     = errors.New("chat request failed")
)

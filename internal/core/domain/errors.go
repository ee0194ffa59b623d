package domain

import "errors"

// Domain errors represent pipeline failures independent of any adapter.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexInProgress indicates an index pass is already running.
	ErrIndexInProgress = errors.New("index pass in progress")

	// ErrTaskRunning indicates a scheduled task's previous run has not finished.
	ErrTaskRunning = errors.New("task already running")

	// ErrServiceUnavailable indicates the remote service answered
	// "temporarily unavailable". Callers may retry.
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	// ErrTransport indicates the request failed below HTTP (connection
	// refused, reset, timeout, truncated body). Callers may retry.
	ErrTransport = errors.New("transport failure")

	// ErrRateLimited indicates the remote rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the chat service is not configured.
	ErrLLMUnavailable = errors.New("chat service unavailable")

	// ErrCorruptVector indicates a stored vector blob does not match its dimensions.
	ErrCorruptVector = errors.New("corrupt vector")
)

package services

import "errors"

// Coordinator errors
var (
	ErrConnectionRejected = errors.New("coordinator: connection missing identity metadata")
)

// Task errors
var (
	ErrTaskNotFound     = errors.New("task: not found")
	ErrTaskInvalidInput = errors.New("task: invalid input")
	ErrAgentNotRequired = errors.New("task: agent type not in required set")
)

package services

import "errors"

// Extraction errors. The batch loop recovers from all of them with empty text.
var (
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrNoText             = errors.New("no text content found")
)

// Scoring errors. The batch loop recovers from all of them with FallbackScore.
var (
	ErrInputTooShort = errors.New("input text too short")
	ErrScoring       = errors.New("scoring failed")
)

// Input validation errors, surfaced to the user before any processing starts.
var (
	ErrMissingJobDescription = errors.New("job description is required")
	ErrNoDocuments           = errors.New("at least one resume is required")
	ErrInvalidExtension      = errors.New("invalid file extension")
	ErrFileTooLarge          = errors.New("file too large")
)

package domain

import (
	"errors"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	ProductionAPIURL  = "https://vacas-backend.onrender.com"
	DevelopmentAPIURL = "http://localhost:8000"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageSuccessPing          = "pong, its works"

	ErrParseForm     = errors.New("failed to parse multipart form")
	ErrNotConfigured = errors.New("feature not configured")
)

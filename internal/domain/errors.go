package domain

import "errors"

// Sentinel errors for the conversation flows. Every one of them is terminal for
// the flow that returns it; nothing in the core retries.
var (
	ErrTransport           = errors.New("domain: transport failure")
	ErrBotNotFound         = errors.New("domain: bot not found")
	ErrTokenNotFound       = errors.New("domain: token not found")
	ErrTokenCreationFailed = errors.New("domain: bot created but token missing")
	ErrQuotaExceeded       = errors.New("domain: bot quota exceeded")
	ErrInvalidBotName      = errors.New("domain: invalid bot name")
)

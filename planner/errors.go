package planner

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ─── Error Classifier ─────────────────────────────────────────────────────────

// Kind is the failure taxonomy the HTTP layer keys status codes off.
type Kind int

const (
	KindUnknown Kind = iota
	KindTimeout
	KindRateLimited
	KindBadCredentials
	KindMalformedResponse // internal only: validator substituted a default
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate_limited"
	case KindBadCredentials:
		return "misconfigured_credentials"
	case KindMalformedResponse:
		return "malformed_upstream_response"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to the status the handler should answer with.
// KindMalformedResponse never reaches a client, so it has no real mapping.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindTimeout:
		return http.StatusRequestTimeout
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindBadCredentials:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing template for a kind.
func (k Kind) Message() string {
	switch k {
	case KindTimeout:
		return "The AI service took too long to respond. Please try again."
	case KindRateLimited:
		return "The AI service is busy right now. Please try again in a moment."
	case KindBadCredentials:
		return "The AI service is not configured. Contact the administrator."
	default:
		return "Something went wrong while talking to the AI service."
	}
}

// Error is a classified failure surfaced to a caller that asked for one
// (pre-flight config problems, or entry-point operations with no fallback).
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNoCredentials is the canonical pre-flight failure an Upstream.Ready
// implementation should return (wrapped or bare) when its API key is absent.
var ErrNoCredentials = errors.New("api credentials not configured")

// classifyRule pairs a predicate with the kind it implies. Rules run in
// order; the first match wins, so put the most specific checks first.
type classifyRule struct {
	match func(error) bool
	kind  Kind
}

var classifyRules = []classifyRule{
	{func(err error) bool { return errors.Is(err, ErrNoCredentials) }, KindBadCredentials},
	{func(err error) bool { return errors.Is(err, context.DeadlineExceeded) }, KindTimeout},
	{matchAny("timed out", "timeout"), KindTimeout},
	{matchAny("429", "rate limit", "quota", "too many requests"), KindRateLimited},
	{matchAny("401", "403", "api key", "unauthorized", "invalid credentials"), KindBadCredentials},
}

func matchAny(substrings ...string) func(error) bool {
	return func(err error) bool {
		msg := strings.ToLower(err.Error())
		for _, s := range substrings {
			if strings.Contains(msg, s) {
				return true
			}
		}
		return false
	}
}

// Classify maps a raw failure cause onto the taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	for _, r := range classifyRules {
		if r.match(err) {
			return r.kind
		}
	}
	return KindUnknown
}

package validator

import (
	"context"

	"crossquote/internal/domain"
)

// Severity decides whether a failed rule rejects the request.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is the outcome of one rule applied to one field.
type Result struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

// Validator is the interface for a single built-in quote request rule.
type Validator interface {
	Validate(ctx context.Context, req *domain.QuoteRequest) []Result
	RuleKey() string
	RuleName() string
	Severity() Severity
}

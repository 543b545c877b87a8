package validator

import (
	"context"

	"crossquote/internal/domain"
)

// Finding is a failed rule result tagged with its rule metadata.
type Finding struct {
	RuleKey  string
	RuleName string
	Severity Severity
	Result
}

// Report holds every failed rule of one request.
type Report struct {
	Errors   []Finding
	Warnings []Finding
}

// Err returns a ValidationError listing every error finding, or nil.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	fields := make([]domain.FieldError, 0, len(r.Errors))
	for _, f := range r.Errors {
		fields = append(fields, domain.FieldError{Field: f.FieldPath, Message: f.Message})
	}
	return &domain.ValidationError{Fields: fields}
}

// Engine runs the registered rules against quote requests.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Check runs every rule and collects the failures in registration order.
func (e *Engine) Check(ctx context.Context, req *domain.QuoteRequest) Report {
	return e.CheckRules(ctx, req, e.registry.All()...)
}

// CheckRules runs only the given rules, for checks that depend on state the
// registry does not hold.
func (e *Engine) CheckRules(ctx context.Context, req *domain.QuoteRequest, rules ...Validator) Report {
	var rep Report
	for _, v := range rules {
		for _, res := range v.Validate(ctx, req) {
			if res.Passed {
				continue
			}
			f := Finding{RuleKey: v.RuleKey(), RuleName: v.RuleName(), Severity: v.Severity(), Result: res}
			if v.Severity() == SeverityError {
				rep.Errors = append(rep.Errors, f)
			} else {
				rep.Warnings = append(rep.Warnings, f)
			}
		}
	}
	return rep
}

// Validate returns a *domain.ValidationError when any error-severity rule fails.
func (e *Engine) Validate(ctx context.Context, req *domain.QuoteRequest) error {
	rep := e.Check(ctx, req)
	return rep.Err()
}

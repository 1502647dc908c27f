package assistant

import (
	"context"
	"errors"
	"strings"
)

// Responder produces an assistant reply for a user message.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// rule maps message keywords to a canned reply.
type rule struct {
	keywords []string
	reply    string
}

// CannedResponder answers HR questions from a fixed rule table. There is no
// inference backend behind it.
type CannedResponder struct {
	rules        []rule
	defaultReply string
}

// NewCannedResponder builds the responder with the default HR rule set.
func NewCannedResponder() *CannedResponder {
	return &CannedResponder{
		rules: []rule{
			{
				keywords: []string{"leave", "vacation", "holiday", "pto"},
				reply:    "You can request leave from the Tasks section. Your manager approves requests within two business days.",
			},
			{
				keywords: []string{"payroll", "salary", "payslip"},
				reply:    "Payslips are published in the Documents section on the last working day of each month. For corrections, contact the HR team.",
			},
			{
				keywords: []string{"onboard", "new hire", "first day"},
				reply:    "New hires complete onboarding through the Employees section: personal details, contract signature, and equipment checklist.",
			},
			{
				keywords: []string{"kpi", "performance", "review"},
				reply:    "Performance KPIs are tracked on the KPIs dashboard and reviewed quarterly with your team lead.",
			},
			{
				keywords: []string{"contract", "document", "policy"},
				reply:    "Company policies and your contracts are stored in the Documents section. Ask HR if a document you expect is missing.",
			},
		},
		defaultReply: "I can help with questions about leave, payroll, onboarding, performance reviews, and documents. Could you rephrase your question?",
	}
}

// Respond picks the first rule whose keyword occurs in the message.
func (r *CannedResponder) Respond(ctx context.Context, message string) (string, error) {
	if r == nil {
		return "", errors.New("responder not initialised")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return "", errors.New("message is empty")
	}

	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.reply, nil
			}
		}
	}
	return r.defaultReply, nil
}

var _ Responder = (*CannedResponder)(nil)

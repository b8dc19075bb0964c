// internal/forms/submit.go
package forms

import (
	"context"

	"github.com/codr1/leaguedesk/internal/gateway"
)

// Draft is a form value that can be validated and turned into a request
// body.
type Draft interface {
	Validate() Errors
	Payload() *gateway.Payload
}

// Submit validates draft and, only when it is valid, calls mutate exactly
// once with its payload. Validation errors are returned without any call.
func Submit(ctx context.Context, draft Draft, mutate func(context.Context, *gateway.Payload) error) (Errors, error) {
	errs := draft.Validate()
	if !errs.OK() {
		return errs, nil
	}
	return Errors{}, mutate(ctx, draft.Payload())
}

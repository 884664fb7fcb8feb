package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	util "github.com/spec-kit/emergency-services/pkg/util"
)

// Ref names one cross-service reference in a write payload: the owning
// service's base URL, the resource collection, the payload field carrying
// the ID, and the ID itself (nil for optional references left unset).
type Ref struct {
	Base     string
	Resource string
	Field    string
	ID       *int64
}

// Validator checks that referenced entities exist in their owning services
// before a local write commits. Policy is strictly fail-closed: any outcome
// other than a 200 from the owner rejects the write.
type Validator struct {
	client  *LookupClient
	timeout time.Duration
}

// NewValidator builds a validator with the configured per-lookup timeout.
func NewValidator(client *LookupClient, timeout time.Duration) *Validator {
	return &Validator{client: client, timeout: timeout}
}

// ValidateAll checks every reference and aggregates failures into a single
// field-scoped validation error, so the caller sees all problems at once
// rather than the first one. Nil IDs short-circuit without a remote call.
// The caller's token is forwarded for authorization on the remote side.
func (v *Validator) ValidateAll(ctx context.Context, token string, refs ...Ref) error {
	details := map[string]any{}

	for _, ref := range refs {
		if ref.ID == nil {
			continue
		}
		if msg := v.check(ctx, token, ref); msg != "" {
			details[ref.Field] = msg
		}
	}

	if len(details) > 0 {
		return util.NewReferenceErrors(details)
	}
	return nil
}

func (v *Validator) check(ctx context.Context, token string, ref Ref) string {
	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	status, _, err := v.client.get(lookupCtx, ref.Base, ref.Resource, *ref.ID, token)
	switch {
	case err != nil:
		return fmt.Sprintf("communication error while validating %s with ID %d", entityName(ref.Resource), *ref.ID)
	case status == http.StatusOK:
		return ""
	case status == http.StatusNotFound:
		return fmt.Sprintf("%s with ID %d not found", entityName(ref.Resource), *ref.ID)
	default:
		return fmt.Sprintf("error (%d) while validating %s with ID %d", status, entityName(ref.Resource), *ref.ID)
	}
}

// entityName turns a collection noun into the singular used in messages.
func entityName(resource string) string {
	name := strings.Trim(resource, "/")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSuffix(name, "s")
}

package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/refcheck"
)

// refResultErr turns a validation result into the error the HTTP layer
// understands. Rejected and Unavailable stay distinct end to end: a rejected
// reference is the caller's problem (400), an unreachable dependency is not
// (503, retry later).
func refResultErr(res refcheck.Result) error {
	switch res.Verdict {
	case refcheck.VerdictRejected:
		ref := res.Offending
		return apierr.Rejected(
			fmt.Sprintf("invalid_%s_id", ref.Kind),
			fmt.Errorf("invalid %s id: %d", ref.Kind, ref.ID),
		)
	case refcheck.VerdictUnavailable:
		return apierr.Unavailable(res.Kind, fmt.Errorf("failed to validate %s reference", res.Kind))
	default:
		return nil
	}
}

// storeErr maps an Entity Store failure: a missing row becomes a 404, every
// other cause stays internal and never leaks detail to the caller.
func storeErr(err error, notFoundCode string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(notFoundCode, err)
	}
	return apierr.Internal(err)
}

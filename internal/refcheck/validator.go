package refcheck

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openmicroshop/commerce-backend/internal/clients"
	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
)

// Ref names a foreign entity owned by another service, in the order the
// request declared it.
type Ref struct {
	Kind string
	ID   int64
}

func (r Ref) String() string { return fmt.Sprintf("%s/%d", r.Kind, r.ID) }

type Verdict int

const (
	VerdictAccepted Verdict = iota
	VerdictRejected
	VerdictUnavailable
)

// Result of validating one reference set. Offending is set on Rejected and
// names the first reference, in declaration order, that definitively does
// not exist. Kind is set on Unavailable and names the dependency that could
// not be reached within budget.
type Result struct {
	Verdict   Verdict
	Offending *Ref
	Kind      string
}

func (res Result) Accepted() bool { return res.Verdict == VerdictAccepted }

// Validator resolves every reference of a write request before the write is
// allowed to touch the local store. Distinct references fan out
// concurrently; outcomes are re-read in declaration order so the reported
// offender does not depend on goroutine scheduling.
type Validator struct {
	resolvers map[string]clients.Resolver
	backoff   time.Duration
	overall   time.Duration
	log       *logger.Logger
}

func New(baseLog *logger.Logger, cfg config.ValidateConfig, resolvers ...clients.Resolver) *Validator {
	byKind := make(map[string]clients.Resolver, len(resolvers))
	for _, r := range resolvers {
		byKind[r.Kind()] = r
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 150 * time.Millisecond
	}
	overall := cfg.OverallTimeout
	if overall <= 0 {
		overall = 8 * time.Second
	}
	return &Validator{
		resolvers: byKind,
		backoff:   backoff,
		overall:   overall,
		log:       baseLog.With("component", "RefValidator"),
	}
}

type refKey struct {
	kind string
	id   int64
}

// Validate resolves each distinct reference once (one attempt plus one
// retry on unreachable, never on not-found) under an overall deadline.
// Rules, applied over the joined outcomes in declaration order:
//
//   - every reference found            -> Accepted
//   - any reference not found          -> Rejected, naming the first one
//   - otherwise any unreachable        -> Unavailable, naming its kind
//
// Overall-deadline expiry surfaces as Unavailable: the outcome is unknown,
// which must never be reported to the caller as an invalid reference.
func (v *Validator) Validate(ctx context.Context, refs []Ref) Result {
	if len(refs) == 0 {
		return Result{Verdict: VerdictAccepted}
	}

	ctx, cancel := context.WithTimeout(ctx, v.overall)
	defer cancel()

	distinct := make([]refKey, 0, len(refs))
	seen := make(map[refKey]struct{}, len(refs))
	for _, r := range refs {
		k := refKey{kind: r.Kind, id: r.ID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		distinct = append(distinct, k)
	}

	var mu sync.Mutex
	outcomes := make(map[refKey]clients.Resolution, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	for _, k := range distinct {
		k := k
		g.Go(func() error {
			res := v.resolveWithRetry(gctx, k)
			mu.Lock()
			outcomes[k] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range refs {
		k := refKey{kind: refs[i].Kind, id: refs[i].ID}
		if outcomes[k].Outcome == clients.OutcomeNotFound {
			offending := refs[i]
			v.log.Info("Reference rejected", "ref", offending.String())
			return Result{Verdict: VerdictRejected, Offending: &offending}
		}
	}
	for i := range refs {
		k := refKey{kind: refs[i].Kind, id: refs[i].ID}
		if res := outcomes[k]; res.Outcome == clients.OutcomeUnreachable {
			v.log.Warn("Dependency unavailable during validation",
				"ref", refs[i].String(), "error", res.Err)
			return Result{Verdict: VerdictUnavailable, Kind: refs[i].Kind}
		}
	}
	return Result{Verdict: VerdictAccepted}
}

func (v *Validator) resolveWithRetry(ctx context.Context, k refKey) clients.Resolution {
	r, ok := v.resolvers[k.kind]
	if !ok {
		return clients.Resolution{
			Outcome: clients.OutcomeUnreachable,
			Err:     fmt.Errorf("no resolver configured for kind %q", k.kind),
		}
	}

	res := r.Resolve(ctx, k.id)
	if res.Outcome != clients.OutcomeUnreachable {
		return res
	}

	// Exactly one retry, fixed backoff, only for the unknown case. A
	// definitive not-found is never retried.
	select {
	case <-ctx.Done():
		return res
	case <-time.After(v.backoff):
	}
	return r.Resolve(ctx, k.id)
}

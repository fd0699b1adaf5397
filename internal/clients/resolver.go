package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
)

// Outcome is the three-way classification of a remote lookup. The split
// between NotFound and Unreachable is the load-bearing part: NotFound means
// the peer answered and the entity is definitively absent, Unreachable means
// the answer is unknown and must never be treated as a rejection.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNotFound
	OutcomeUnreachable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unreachable"
	}
}

type Resolution struct {
	Outcome Outcome
	Err     error
}

// Resolver answers "does entity <id> exist?" against one remote dependency.
// One bounded attempt per call; retry policy lives with the caller so the
// latency budget stays visible at the call site.
type Resolver interface {
	Kind() string
	Resolve(ctx context.Context, id int64) Resolution
}

type httpResolver struct {
	kind       string
	baseURL    string
	collection string
	httpClient *http.Client
	log        *logger.Logger
}

func newHTTPResolver(kind, baseURL, collection string, timeout time.Duration, baseLog *logger.Logger) Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpResolver{
		kind:       kind,
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: timeout},
		log:        baseLog.With("client", kind+"Resolver"),
	}
}

func NewUserResolver(baseURL string, timeout time.Duration, log *logger.Logger) Resolver {
	return newHTTPResolver("user", baseURL, "users", timeout, log)
}

func NewProductResolver(baseURL string, timeout time.Duration, log *logger.Logger) Resolver {
	return newHTTPResolver("product", baseURL, "products", timeout, log)
}

func NewStoreResolver(baseURL string, timeout time.Duration, log *logger.Logger) Resolver {
	return newHTTPResolver("store", baseURL, "stores", timeout, log)
}

func (r *httpResolver) Kind() string { return r.kind }

func (r *httpResolver) Resolve(ctx context.Context, id int64) Resolution {
	url := fmt.Sprintf("%s/api/%s/%d", r.baseURL, r.collection, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Resolution{Outcome: OutcomeUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Warn("Resolve request failed", "id", id, "error", err)
		return Resolution{Outcome: OutcomeUnreachable, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// A 200 with an unparsable body cannot be trusted as a "yes";
		// classify it as unreachable rather than found.
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return Resolution{Outcome: OutcomeUnreachable, Err: err}
		}
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
			r.log.Warn("Resolve returned malformed payload", "id", id, "error", err)
			return Resolution{Outcome: OutcomeUnreachable, Err: fmt.Errorf("malformed %s payload", r.kind)}
		}
		return Resolution{Outcome: OutcomeFound}
	case resp.StatusCode == http.StatusNotFound:
		return Resolution{Outcome: OutcomeNotFound}
	default:
		return Resolution{
			Outcome: OutcomeUnreachable,
			Err:     fmt.Errorf("%s service answered %d", r.kind, resp.StatusCode),
		}
	}
}

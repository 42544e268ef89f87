package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	domain "github.com/oshokin/komga-settings/internal/domain/komga"
	"github.com/oshokin/komga-settings/internal/logger"
	"github.com/oshokin/komga-settings/internal/transport"
)

// LibrariesPath is the cheap, read-only list endpoint used as the probe target.
const LibrariesPath = "/libraries/"

var (
	// errNoDispatcher is reported when the prober was built without a transport.
	errNoDispatcher = errors.New("no transport configured")
	// errEmptyResponse is reported when the transport returned neither a response nor an error.
	errEmptyResponse = errors.New("empty response")
)

// Resolver provides the endpoint for the currently stored credentials.
type Resolver interface {
	Resolve(ctx context.Context) domain.Endpoint
}

// Dispatcher sends a single request and reports its status.
type Dispatcher interface {
	Dispatch(ctx context.Context, request *transport.Request) (*transport.Response, error)
}

// Observer receives one notification per finished probe.
type Observer interface {
	ObserveProbe(outcome string, elapsed time.Duration)
}

// Prober checks that the stored settings reach an authorized Komga server.
// It holds no mutable state, so overlapping probes are independent.
type Prober struct {
	// resolver supplies the base URL and authorization header.
	resolver Resolver
	// dispatcher performs the HTTP round trip.
	dispatcher Dispatcher
	// observer records outcomes; optional.
	observer Observer
}

// Option configures prober behaviour.
type Option func(*Prober)

// WithObserver attaches an outcome observer such as a metrics recorder.
func WithObserver(observer Observer) Option {
	return func(p *Prober) {
		p.observer = observer
	}
}

// NewProber wires a prober to its collaborators.
func NewProber(resolver Resolver, dispatcher Dispatcher, opts ...Option) *Prober {
	p := &Prober{
		resolver:   resolver,
		dispatcher: dispatcher,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// TestConnection probes the server and returns the diagnostic to display.
func (p *Prober) TestConnection(ctx context.Context) string {
	return p.Probe(ctx).String()
}

// Probe resolves the stored endpoint, issues one request and classifies the result.
func (p *Prober) Probe(ctx context.Context) Outcome {
	ctx = logger.WithKV(logger.WithName(ctx, "probe"), "probe_id", uuid.NewString())
	startedAt := time.Now()

	outcome := p.probe(ctx)

	elapsed := time.Since(startedAt)
	if p.observer != nil {
		p.observer.ObserveProbe(outcome.Label(), elapsed)
	}

	logger.InfoKV(ctx, "Probe finished", "outcome", outcome.Label(), "elapsed", elapsed.String())

	return outcome
}

func (p *Prober) probe(ctx context.Context) Outcome {
	var endpoint domain.Endpoint
	if p.resolver != nil {
		endpoint = p.resolver.Resolve(ctx)
	}

	// Precondition: nothing is sent until every credential is set.
	if !endpoint.IsResolved() {
		return Outcome{Kind: KindCredentialsUnset}
	}

	request := &transport.Request{
		Method:  http.MethodGet,
		URL:     *endpoint.BaseAPIURL + LibrariesPath,
		Header:  http.Header{"Authorization": {*endpoint.Authorization}},
		NoCache: true,
	}

	logger.DebugKV(ctx, "Dispatching probe", "url", request.URL)

	response, err := p.dispatch(ctx, request)
	if err != nil {
		logger.WarnKV(ctx, "Probe could not reach server", "error", err)
		return Outcome{Kind: KindConnectionFailure, Message: err.Error()}
	}

	switch response.StatusCode {
	case http.StatusOK:
		return Outcome{Kind: KindSuccess}
	case http.StatusUnauthorized:
		return Outcome{Kind: KindUnauthorized}
	default:
		return Outcome{Kind: KindUnexpectedStatus, StatusCode: response.StatusCode}
	}
}

// dispatch calls the dispatcher and converts a panic or a missing response into an error.
func (p *Prober) dispatch(ctx context.Context, request *transport.Request) (response *transport.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			response, err = nil, fmt.Errorf("%v", r)
		}
	}()

	if p.dispatcher == nil {
		return nil, errNoDispatcher
	}

	response, err = p.dispatcher.Dispatch(ctx, request)
	if err == nil && response == nil {
		return nil, errEmptyResponse
	}

	return response, err
}

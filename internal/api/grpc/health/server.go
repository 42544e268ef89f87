package health

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/komga-settings/internal/logger"
	"github.com/oshokin/komga-settings/internal/service/probe"
)

const (
	// ServiceName is the health service name answering for the Komga server.
	// An empty name is accepted as well and means the same thing.
	ServiceName = "komga"

	// DiagnosticHeader carries the probe diagnostic in the response metadata.
	DiagnosticHeader = "komga-diagnostic"
)

// Prober abstracts the connectivity check the health service depends on.
type Prober interface {
	Probe(ctx context.Context) probe.Outcome
}

// Server implements the grpc.health.v1.Health API.
type Server struct {
	healthpb.UnimplementedHealthServer

	// prober checks the Komga server on every call.
	prober Prober
}

// NewServer wires the provided prober into a gRPC health handler.
func NewServer(prober Prober) *Server {
	return &Server{
		prober: prober,
	}
}

// Check probes the Komga server and reports SERVING only on a successful connection.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if name := req.GetService(); name != "" && name != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", name)
	}

	outcome := s.prober.Probe(ctx)

	// Outside of a real RPC there is no stream to attach the header to.
	if err := grpc.SetHeader(ctx, metadata.Pairs(DiagnosticHeader, outcome.String())); err != nil {
		logger.DebugKV(ctx, "Unable to attach diagnostic header", "error", err)
	}

	return &healthpb.HealthCheckResponse{
		Status: toServingStatus(outcome),
	}, nil
}

// toServingStatus maps a probe outcome to a health status.
func toServingStatus(outcome probe.Outcome) healthpb.HealthCheckResponse_ServingStatus {
	if outcome.IsSuccess() {
		return healthpb.HealthCheckResponse_SERVING
	}

	return healthpb.HealthCheckResponse_NOT_SERVING
}

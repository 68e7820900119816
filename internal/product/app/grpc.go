package app

import (
	"github.com/abgdnv/catalog/pkg/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// HealthServiceName is the service name reported through grpc.health.v1.Health.
const HealthServiceName = "product"

// SetupGrpcServer creates the gRPC server with the standard health service registered.
// Both the overall status and HealthServiceName start as NOT_SERVING until the probe reports otherwise.
func SetupGrpcServer(reflectionEnabled bool) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	setServing(healthServer, false)
	return server.NewGRPCServer(reflectionEnabled, server.WithHealth(healthServer)), healthServer
}

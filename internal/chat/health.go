package chat

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const ServiceName = "edumark-chat"

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Variant string `json:"variant"`
	Backend string `json:"backend"`
}

// HealthHandler answers without touching the inference backend.
func HealthHandler(variant, backend, allowOrigin string) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if req.HTTPMethod == http.MethodOptions {
			return preflight(allowOrigin), nil
		}
		return jsonResp(http.StatusOK, allowOrigin, HealthResponse{
			OK:      true,
			Service: ServiceName,
			Variant: variant,
			Backend: backend,
		}), nil
	}
}

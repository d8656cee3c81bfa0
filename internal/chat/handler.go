package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	pipeline    *Pipeline
	allowOrigin string
	debug       bool
	logger      *zap.Logger
}

func NewHandler(p *Pipeline, allowOrigin string, debug bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pipeline: p, allowOrigin: allowOrigin, debug: debug, logger: logger}
}

// Handle is the API Gateway (REST, proxy integration) entry point. The
// returned error is always nil; failures are encoded in the response.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	if strings.EqualFold(req.HTTPMethod, http.MethodOptions) {
		return preflight(h.allowOrigin), nil
	}

	requestID := RequestID(ctx, req)
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("chat handler panic",
				zap.String("request_id", requestID),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			resp, err = h.internalError(fmt.Errorf("panic: %v", r)), nil
		}
	}()

	chatReq, perr := ParseRequest(req.Body, req.IsBase64Encoded)
	if perr != nil {
		var re *RequestError
		if errors.As(perr, &re) {
			h.logger.Info("rejected chat request",
				zap.String("request_id", requestID),
				zap.String("kind", string(re.Kind)),
			)
			return jsonErr(http.StatusBadRequest, h.allowOrigin, re.Title, re.Detail), nil
		}
		return h.internalError(perr), nil
	}

	res := h.pipeline.Run(ctx, requestID, chatReq)
	return jsonOK(h.allowOrigin, ChatResponse{
		Response:  res.Text,
		Model:     res.Model,
		Status:    res.Status,
		Timestamp: res.At.Unix(),
	}), nil
}

func (h *Handler) internalError(err error) events.APIGatewayProxyResponse {
	body := ErrorResponse{
		Error:   "Internal server error",
		Message: "An error occurred while processing your request",
		Status:  StatusError,
	}
	if h.debug {
		body.Details = err.Error()
	}
	return jsonResp(http.StatusInternalServerError, h.allowOrigin, body)
}

// RequestID prefers the Lambda invocation id, then the API Gateway one, and
// falls back to a fresh UUID for local runs.
func RequestID(ctx context.Context, req events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if req.RequestContext.RequestID != "" {
		return req.RequestContext.RequestID
	}
	return uuid.NewString()
}

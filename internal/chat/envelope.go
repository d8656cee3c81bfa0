package chat

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
	StatusError    = "error"
)

type ChatResponse struct {
	Response  string `json:"response"`
	Model     string `json:"model"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

const allowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"

func corsHeaders(origin string) map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Headers": allowHeaders,
		"Access-Control-Allow-Methods": "POST,OPTIONS",
	}
}

func jsonResp(status int, origin string, v any) events.APIGatewayProxyResponse {
	b, _ := json.Marshal(v)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(origin),
		Body:       string(b),
	}
}

func jsonOK(origin string, v ChatResponse) events.APIGatewayProxyResponse {
	return jsonResp(http.StatusOK, origin, v)
}

func jsonErr(status int, origin string, title, detail string) events.APIGatewayProxyResponse {
	return jsonResp(status, origin, ErrorResponse{Error: title, Message: detail, Status: StatusError})
}

func preflight(origin string) events.APIGatewayProxyResponse {
	resp := jsonResp(http.StatusOK, origin, map[string]string{"message": "CORS preflight successful"})
	resp.Headers["Access-Control-Max-Age"] = "86400"
	return resp
}

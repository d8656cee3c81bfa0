package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"edumark/internal/chat"
	"edumark/internal/config"
)

func main() {
	cfg := config.Public(os.Getenv)
	lambda.Start(chat.HealthHandler(cfg.Variant, cfg.Backend, cfg.AllowOrigin))
}

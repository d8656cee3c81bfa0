package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"edumark/internal/app"
)

func main() {
	ctx := context.Background()

	a, err := app.Build(ctx, os.Getenv, false)
	if err != nil {
		log.Fatalf("init chat: %v", err)
	}
	defer func() { _ = a.Logger.Sync() }()

	// a.Registry is not exported here; use `edumark serve` to see /metrics.
	lambda.Start(a.Handler.Handle)
}

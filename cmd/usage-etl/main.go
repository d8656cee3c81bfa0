package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"edumark/internal/chatlog"
	"edumark/internal/config"
	"edumark/internal/logger"
	"edumark/internal/usage"
)

func main() {
	ctx := context.Background()

	ucfg, err := config.LoadUsage(os.Getenv)
	if err != nil {
		log.Fatalf("load usage config: %v", err)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	l := logger.New(ucfg.Debug, false)
	defer func() { _ = l.Sync() }()

	var partitions usage.Registrar
	switch ucfg.PartitionMode {
	case config.PartitionsGlue:
		partitions = usage.NewGluePartitions(glue.NewFromConfig(awsCfg), ucfg.GlueDatabase, ucfg.Table)
	case config.PartitionsAthena:
		partitions = usage.NewAthenaRepair(athena.NewFromConfig(awsCfg), ucfg.GlueDatabase, ucfg.Table, ucfg.AthenaWorkgroup, ucfg.AthenaOutput)
	}

	// chat text is never read here, so no sealer
	interactions := chatlog.New(dynamodb.NewFromConfig(awsCfg), ucfg.ChatLogTable, 0, nil)
	h := usage.NewRollup(interactions, s3.NewFromConfig(awsCfg), partitions, ucfg.Bucket, ucfg.Prefix, ucfg.DaysBack, l)
	lambda.Start(h.Handle)
}

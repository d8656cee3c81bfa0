package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
)

type Partition struct {
	Date     string
	Variant  string
	Location string
}

// Registrar makes freshly written partitions visible to Athena.
type Registrar interface {
	Register(ctx context.Context, parts []Partition) error
}

type GlueClient interface {
	GetTable(ctx context.Context, params *glue.GetTableInput, optFns ...func(*glue.Options)) (*glue.GetTableOutput, error)
	CreatePartition(ctx context.Context, params *glue.CreatePartitionInput, optFns ...func(*glue.Options)) (*glue.CreatePartitionOutput, error)
}

// GluePartitions registers each (dt, variant) partition directly, reusing the
// table's storage descriptor.
type GluePartitions struct {
	glue     GlueClient
	database string
	table    string
}

func NewGluePartitions(c GlueClient, database, table string) *GluePartitions {
	return &GluePartitions{glue: c, database: database, table: table}
}

func (g *GluePartitions) Register(ctx context.Context, parts []Partition) error {
	out, err := g.glue.GetTable(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(g.database),
		Name:         aws.String(g.table),
	})
	if err != nil {
		return fmt.Errorf("glue GetTable %s.%s: %w", g.database, g.table, err)
	}
	if out.Table == nil || out.Table.StorageDescriptor == nil {
		return fmt.Errorf("glue table %s.%s has no storage descriptor", g.database, g.table)
	}

	seen := map[string]bool{}
	for _, p := range parts {
		if seen[p.Date+"/"+p.Variant] {
			continue
		}
		seen[p.Date+"/"+p.Variant] = true

		sd := *out.Table.StorageDescriptor
		sd.Location = aws.String(p.Location)
		_, err := g.glue.CreatePartition(ctx, &glue.CreatePartitionInput{
			DatabaseName: aws.String(g.database),
			TableName:    aws.String(g.table),
			PartitionInput: &gluetypes.PartitionInput{
				Values:            []string{p.Date, p.Variant},
				StorageDescriptor: &sd,
			},
		})
		var exists *gluetypes.AlreadyExistsException
		if err != nil && !errors.As(err, &exists) {
			return fmt.Errorf("glue CreatePartition dt=%s variant=%s: %w", p.Date, p.Variant, err)
		}
	}
	return nil
}

type AthenaClient interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
}

// AthenaRepair runs MSCK REPAIR TABLE once per batch and waits for it.
type AthenaRepair struct {
	athena    AthenaClient
	database  string
	table     string
	workgroup string
	output    string

	PollEvery time.Duration
	Timeout   time.Duration
}

func NewAthenaRepair(c AthenaClient, database, table, workgroup, output string) *AthenaRepair {
	return &AthenaRepair{
		athena:    c,
		database:  database,
		table:     table,
		workgroup: workgroup,
		output:    output,
		PollEvery: 2 * time.Second,
		Timeout:   60 * time.Second,
	}
}

func (a *AthenaRepair) Register(ctx context.Context, parts []Partition) error {
	if len(parts) == 0 {
		return nil
	}

	start, err := a.athena.StartQueryExecution(ctx, &athena.StartQueryExecutionInput{
		QueryString: aws.String(fmt.Sprintf("MSCK REPAIR TABLE %s;", a.table)),
		QueryExecutionContext: &athenatypes.QueryExecutionContext{
			Database: aws.String(a.database),
		},
		WorkGroup: aws.String(a.workgroup),
		ResultConfiguration: &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(a.output),
		},
	})
	if err != nil {
		return fmt.Errorf("athena StartQueryExecution: %w", err)
	}
	qid := aws.ToString(start.QueryExecutionId)

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	tick := time.NewTicker(a.PollEvery)
	defer tick.Stop()

	for {
		st, err := a.athena.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(qid),
		})
		if err != nil {
			return fmt.Errorf("athena GetQueryExecution %s: %w", qid, err)
		}
		if st.QueryExecution != nil && st.QueryExecution.Status != nil {
			status := st.QueryExecution.Status
			switch status.State {
			case athenatypes.QueryExecutionStateSucceeded:
				return nil
			case athenatypes.QueryExecutionStateFailed, athenatypes.QueryExecutionStateCancelled:
				return fmt.Errorf("repair %s: %s", status.State, aws.ToString(status.StateChangeReason))
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("repair timed out waiting for qid=%s: %w", qid, ctx.Err())
		case <-tick.C:
		}
	}
}

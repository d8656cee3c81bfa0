// Package usage rolls the interaction log up into partitioned Parquet files.
package usage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	"edumark/internal/chatlog"
)

// Row matches the columns of the usage table; dt and variant are partition keys.
type Row struct {
	Variant       string  `parquet:"name=variant, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	MetricDate    string  `parquet:"name=metric_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Requests      int64   `parquet:"name=requests, type=INT64"`
	Successes     int64   `parquet:"name=successes, type=INT64"`
	Fallbacks     int64   `parquet:"name=fallbacks, type=INT64"`
	ModelAnswers  int64   `parquet:"name=model_answers, type=INT64"`
	CacheHits     int64   `parquet:"name=cache_hits, type=INT64"`
	Loading       int64   `parquet:"name=loading, type=INT64"`
	Timeouts      int64   `parquet:"name=timeouts, type=INT64"`
	Unavailable   int64   `parquet:"name=unavailable, type=INT64"`
	Unusable      int64   `parquet:"name=unusable, type=INT64"`
	AvgLatencyMs  float64 `parquet:"name=avg_latency_ms, type=DOUBLE"`
	MessageChars  int64   `parquet:"name=message_chars, type=INT64"`
	ResponseChars int64   `parquet:"name=response_chars, type=INT64"`
}

// DefaultDaysBack covers today and yesterday, so a daily run after midnight
// completes the previous day.
const DefaultDaysBack = 2

const partFile = "part-0000.parquet"

type DayLister interface {
	ListDay(ctx context.Context, day time.Time) ([]chatlog.Entry, error)
}

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Rollup struct {
	log        DayLister
	s3         ObjectPutter
	partitions Registrar
	bucket     string
	prefix     string
	daysBack   int
	now        func() time.Time
	logger     *zap.Logger
}

// NewRollup wires the job. partitions may be nil to skip registration.
func NewRollup(log DayLister, s3c ObjectPutter, partitions Registrar, bucket, prefix string, daysBack int, logger *zap.Logger) *Rollup {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rollup{
		log:        log,
		s3:         s3c,
		partitions: partitions,
		bucket:     bucket,
		prefix:     prefix,
		daysBack:   daysBack,
		now:        time.Now,
		logger:     logger,
	}
}

// Aggregate folds one day of entries into one row per variant, sorted by variant.
func Aggregate(day string, entries []chatlog.Entry) []Row {
	byVariant := map[string]*Row{}
	latency := map[string]int64{}
	for _, e := range entries {
		r, ok := byVariant[e.Variant]
		if !ok {
			r = &Row{Variant: e.Variant, MetricDate: day}
			byVariant[e.Variant] = r
		}
		r.Requests++
		switch e.Status {
		case "success":
			r.Successes++
		case "fallback":
			r.Fallbacks++
		}
		switch e.Outcome {
		case "model":
			r.ModelAnswers++
		case "cache":
			r.CacheHits++
		case "loading":
			r.Loading++
		case "timeout":
			r.Timeouts++
		case "unavailable":
			r.Unavailable++
		case "unusable":
			r.Unusable++
		}
		r.MessageChars += int64(e.MessageChars)
		r.ResponseChars += int64(e.ResponseChars)
		latency[e.Variant] += e.LatencyMs
	}

	rows := make([]Row, 0, len(byVariant))
	for v, r := range byVariant {
		r.AvgLatencyMs = float64(latency[v]) / float64(r.Requests)
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Variant < rows[j].Variant })
	return rows
}

// Handle is triggered by an EventBridge schedule. The window ends today and
// reaches daysBack-1 days into the past; each (dt, variant) has exactly one
// object, so re-runs overwrite rather than append.
func (h *Rollup) Handle(ctx context.Context, _ events.CloudWatchEvent) (map[string]any, error) {
	now := h.now().UTC()
	written := 0
	requests := int64(0)
	var parts []Partition

	for i := 0; i < h.daysBack; i++ {
		day := now.AddDate(0, 0, -i)
		dt := day.Format("2006-01-02")

		entries, err := h.log.ListDay(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("list interactions dt=%s: %w", dt, err)
		}

		for _, row := range Aggregate(dt, entries) {
			dir := fmt.Sprintf("%sdt=%s/variant=%s/", h.prefix, dt, row.Variant)
			key := dir + partFile

			data, err := encodeParquet([]Row{row})
			if err != nil {
				return nil, fmt.Errorf("encode dt=%s variant=%s: %w", dt, row.Variant, err)
			}
			if _, err := h.s3.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(h.bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(data),
				ContentType: aws.String("application/octet-stream"),
				ACL:         s3types.ObjectCannedACLPrivate,
			}); err != nil {
				return nil, fmt.Errorf("s3 PutObject %s: %w", key, err)
			}

			h.logger.Info("usage row written",
				zap.String("dt", dt),
				zap.String("variant", row.Variant),
				zap.Int64("requests", row.Requests),
				zap.String("key", key),
			)
			written++
			requests += row.Requests
			parts = append(parts, Partition{
				Date:     dt,
				Variant:  row.Variant,
				Location: fmt.Sprintf("s3://%s/%s", h.bucket, dir),
			})
		}
	}

	if h.partitions != nil && len(parts) > 0 {
		if err := h.partitions.Register(ctx, parts); err != nil {
			return nil, fmt.Errorf("register partitions: %w", err)
		}
	}

	return map[string]any{
		"ok":        true,
		"days_back": h.daysBack,
		"written":   written,
		"requests":  requests,
		"bucket":    h.bucket,
		"prefix":    h.prefix,
	}, nil
}

func encodeParquet(rows []Row) ([]byte, error) {
	localPath := filepath.Join(os.TempDir(), "usage_"+randHex(8)+".parquet")
	defer func() { _ = os.Remove(localPath) }()

	fw, err := local.NewLocalFileWriter(localPath)
	if err != nil {
		return nil, fmt.Errorf("parquet file writer: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, new(Row), 1)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("parquet writer: %w", err)
	}
	pw.RowGroupSize = 8 * 1024 * 1024
	pw.PageSize = 8 * 1024
	pw.CompressionType = 0 // uncompressed

	for _, r := range rows {
		if err := pw.Write(r); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return nil, fmt.Errorf("parquet write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("parquet write stop: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("parquet close: %w", err)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("read parquet tmp: %w", err)
	}
	return data, nil
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

package usage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"edumark/internal/chatlog"
)

type fakeLister struct {
	days  map[string][]chatlog.Entry
	err   error
	asked []string
}

func (f *fakeLister) ListDay(ctx context.Context, day time.Time) ([]chatlog.Entry, error) {
	f.asked = append(f.asked, day.Format("2006-01-02"))
	if f.err != nil {
		return nil, f.err
	}
	return f.days[day.Format("2006-01-02")], nil
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

type fakeRegistrar struct{ parts []Partition }

func (f *fakeRegistrar) Register(ctx context.Context, parts []Partition) error {
	f.parts = append(f.parts, parts...)
	return nil
}

func entries() []chatlog.Entry {
	return []chatlog.Entry{
		{Variant: "tutor", Status: "success", Outcome: "model", LatencyMs: 1000, MessageChars: 10, ResponseChars: 100},
		{Variant: "tutor", Status: "fallback", Outcome: "timeout", LatencyMs: 3000, MessageChars: 20, ResponseChars: 50},
		{Variant: "tutor", Status: "success", Outcome: "loading", LatencyMs: 500},
		{Variant: "assistant", Status: "success", Outcome: "cache", LatencyMs: 20},
	}
}

func TestAggregate(t *testing.T) {
	rows := Aggregate("2025-03-14", entries())
	require.Len(t, rows, 2)

	assert.Equal(t, "assistant", rows[0].Variant)
	assert.Equal(t, int64(1), rows[0].CacheHits)

	tutor := rows[1]
	assert.Equal(t, "2025-03-14", tutor.MetricDate)
	assert.Equal(t, int64(3), tutor.Requests)
	assert.Equal(t, int64(2), tutor.Successes)
	assert.Equal(t, int64(1), tutor.Fallbacks)
	assert.Equal(t, int64(1), tutor.ModelAnswers)
	assert.Equal(t, int64(1), tutor.Timeouts)
	assert.Equal(t, int64(1), tutor.Loading)
	assert.Equal(t, int64(30), tutor.MessageChars)
	assert.InDelta(t, 1500.0, tutor.AvgLatencyMs, 0.001)

	assert.Empty(t, Aggregate("2025-03-14", nil))
}

func TestHandleWritesPartitionedParquet(t *testing.T) {
	now := time.Date(2025, 3, 15, 1, 0, 0, 0, time.UTC)
	lister := &fakeLister{days: map[string][]chatlog.Entry{
		"2025-03-15": entries()[:1],
		"2025-03-14": entries(),
	}}
	store := &fakeS3{objects: map[string][]byte{}}
	reg := &fakeRegistrar{}

	r := NewRollup(lister, store, reg, "analytics", "usage/", 2, nil)
	r.now = func() time.Time { return now }

	out, err := r.Handle(context.Background(), events.CloudWatchEvent{})
	require.NoError(t, err)
	assert.Equal(t, 3, out["written"])
	assert.Equal(t, int64(5), out["requests"])

	require.Len(t, store.objects, 3)
	var tutorKey string
	for k := range store.objects {
		assert.True(t, strings.HasPrefix(k, "analytics/usage/dt=2025-03-1"), k)
		assert.True(t, strings.HasSuffix(k, ".parquet"), k)
		if k == "analytics/usage/dt=2025-03-14/variant=tutor/part-0000.parquet" {
			tutorKey = k
		}
	}
	require.NotEmpty(t, tutorKey)

	require.Len(t, reg.parts, 3)
	assert.Equal(t, Partition{Date: "2025-03-15", Variant: "tutor", Location: "s3://analytics/usage/dt=2025-03-15/variant=tutor/"}, reg.parts[0])

	rows := readParquet(t, store.objects[tutorKey])
	require.Len(t, rows, 1)
	assert.Equal(t, "tutor", rows[0].Variant)
	assert.Equal(t, int64(3), rows[0].Requests)
}

func TestHandleRerunOverwrites(t *testing.T) {
	now := time.Date(2025, 3, 15, 1, 0, 0, 0, time.UTC)
	lister := &fakeLister{days: map[string][]chatlog.Entry{"2025-03-14": entries()}}
	store := &fakeS3{objects: map[string][]byte{}}

	r := NewRollup(lister, store, nil, "analytics", "usage/", 0, nil)
	r.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, err := r.Handle(context.Background(), events.CloudWatchEvent{})
		require.NoError(t, err)
	}

	var tutorKeys []string
	for k := range store.objects {
		if strings.Contains(k, "dt=2025-03-14/variant=tutor/") {
			tutorKeys = append(tutorKeys, k)
		}
	}
	assert.Equal(t, []string{"analytics/usage/dt=2025-03-14/variant=tutor/part-0000.parquet"}, tutorKeys)
	assert.Equal(t, []string{"2025-03-15", "2025-03-14", "2025-03-15", "2025-03-14"}, lister.asked)
}

func TestHandleListError(t *testing.T) {
	r := NewRollup(&fakeLister{err: errors.New("denied")}, &fakeS3{objects: map[string][]byte{}}, nil, "b", "p/", 1, nil)
	_, err := r.Handle(context.Background(), events.CloudWatchEvent{})
	assert.ErrorContains(t, err, "list interactions")
}

func readParquet(t *testing.T, data []byte) []Row {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.parquet")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(Row), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	rows := make([]Row, pr.GetNumRows())
	require.NoError(t, pr.Read(&rows))
	return rows
}

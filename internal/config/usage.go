package config

import (
	"fmt"
	"strings"
)

const (
	PartitionsGlue   = "glue"
	PartitionsAthena = "athena"
	PartitionsNone   = "none"
)

// Usage configures the scheduled usage rollup.
type Usage struct {
	ChatLogTable string
	Bucket       string
	Prefix       string
	DaysBack     int

	PartitionMode   string
	GlueDatabase    string
	Table           string
	AthenaWorkgroup string
	AthenaOutput    string

	Debug bool
}

func LoadUsage(getenv func(string) string) (Usage, error) {
	env := func(k string) string { return strings.TrimSpace(getenv(k)) }

	u := Usage{
		ChatLogTable:    env("CHAT_LOG_TABLE"),
		Bucket:          env("USAGE_BUCKET"),
		Prefix:          env("USAGE_PREFIX"),
		DaysBack:        positiveInt(env("USAGE_DAYS_BACK"), 2),
		PartitionMode:   strings.ToLower(env("USAGE_PARTITION_MODE")),
		GlueDatabase:    env("GLUE_DATABASE"),
		Table:           env("USAGE_TABLE"),
		AthenaWorkgroup: env("ATHENA_WORKGROUP"),
		AthenaOutput:    env("ATHENA_OUTPUT"),
		Debug:           env("DEBUG") == "true",
	}
	if u.Prefix == "" {
		u.Prefix = "usage/"
	}
	if !strings.HasSuffix(u.Prefix, "/") {
		u.Prefix += "/"
	}
	if u.DaysBack > 90 {
		u.DaysBack = 90
	}
	if u.PartitionMode == "" {
		u.PartitionMode = PartitionsGlue
	}
	if u.AthenaWorkgroup == "" {
		u.AthenaWorkgroup = "primary"
	}

	if u.ChatLogTable == "" {
		return Usage{}, fmt.Errorf("missing env CHAT_LOG_TABLE")
	}
	if u.Bucket == "" {
		return Usage{}, fmt.Errorf("missing env USAGE_BUCKET")
	}

	switch u.PartitionMode {
	case PartitionsNone:
	case PartitionsGlue:
		if u.GlueDatabase == "" || u.Table == "" {
			return Usage{}, fmt.Errorf("missing env: GLUE_DATABASE and USAGE_TABLE are required for partition mode %q", u.PartitionMode)
		}
	case PartitionsAthena:
		if u.GlueDatabase == "" || u.Table == "" || u.AthenaOutput == "" {
			return Usage{}, fmt.Errorf("missing env: GLUE_DATABASE, USAGE_TABLE and ATHENA_OUTPUT are required for partition mode %q", u.PartitionMode)
		}
		if !strings.HasPrefix(u.AthenaOutput, "s3://") {
			return Usage{}, fmt.Errorf("ATHENA_OUTPUT must start with s3://")
		}
	default:
		return Usage{}, fmt.Errorf("unknown USAGE_PARTITION_MODE %q", u.PartitionMode)
	}
	return u, nil
}

package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type ParameterClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// resolveSecret prefers the plain env value; otherwise NAME_PARAM names an
// SSM parameter (usually a SecureString) holding it.
func resolveSecret(ctx context.Context, getenv func(string) string, params ParameterClient, name string) (string, error) {
	if v := strings.TrimSpace(getenv(name)); v != "" {
		return v, nil
	}
	paramName := strings.TrimSpace(getenv(name + "_PARAM"))
	if paramName == "" {
		return "", nil
	}
	if params == nil {
		return "", fmt.Errorf("%s_PARAM is set but no SSM client is available", name)
	}

	out, err := params.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("ssm GetParameter %s: %w", paramName, err)
	}
	if out.Parameter == nil {
		return "", fmt.Errorf("ssm parameter %s has no value", paramName)
	}
	return strings.TrimSpace(aws.ToString(out.Parameter.Value)), nil
}

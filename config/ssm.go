package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterStore is the subset of the SSM client used to read configuration
type ParameterStore interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain
func NewParameterStore(ctx context.Context, region string) (ParameterStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// LoadSSM overlays every parameter stored under prefix onto cfg. The last path
// element becomes the key, so /learning-projects/prod/JWT_SECRET sets JWT_SECRET.
// Values already present in cfg are kept unless overwrite is true.
func LoadSSM(ctx context.Context, store ParameterStore, prefix string, cfg map[string]string, overwrite bool) (int, error) {
	loaded := 0
	paginator := ssm.NewGetParametersByPathPaginator(store, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return loaded, fmt.Errorf("reading parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if _, exists := cfg[key]; exists && !overwrite {
				continue
			}
			cfg[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", prefix).Int("count", loaded).Msg("Loaded parameters from SSM")
	return loaded, nil
}

// Load reads the environment and, when SSM_PARAMETER_PATH is set, overlays
// parameters from AWS SSM Parameter Store
func Load(ctx context.Context) (map[string]string, error) {
	cfg := New()

	prefix := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return cfg, nil
	}

	store, err := NewParameterStore(ctx, GetString(cfg, "AWS_REGION", ""))
	if err != nil {
		return nil, err
	}
	if _, err := LoadSSM(ctx, store, prefix, cfg, GetBool(cfg, "SSM_OVERWRITE_ENV", false)); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSM reads the parameter path named by SSM_PARAMETER_PATH and adds every
// parameter to cfg under its base name. Keys already in cfg win.
func LoadSSM(ctx context.Context, cfg map[string]string) error {
	parameterPath := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return nil
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region := GetString(cfg, "AWS_REGION", ""); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	n, err := fillFromParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("path", parameterPath).Int("loaded", n).Msg("Loaded parameters from SSM")
	return nil
}

func fillFromParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, parameterPath string, cfg map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return loaded, fmt.Errorf("read ssm parameters under %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if _, set := cfg[key]; set {
				continue
			}
			cfg[key] = aws.ToString(p.Value)
			loaded++
		}
	}
	return loaded, nil
}

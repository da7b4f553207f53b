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

// parameterReader is the subset of the SSM client used here.
type parameterReader interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM overlays parameters stored under SSM_PARAMETER_PATH onto the env map.
// A parameter named /portfolio/prod/JWT_SECRET sets JWT_SECRET. Values already
// present in the environment win.
func LoadSSM(ctx context.Context, c map[string]string) error {
	prefix := GetString(c, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(c, "AWS_REGION", "us-east-1")))
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	return overlayParameters(ctx, ssm.NewFromConfig(awsCfg), prefix, c)
}

func overlayParameters(ctx context.Context, client parameterReader, prefix string, c map[string]string) error {
	var nextToken *string
	loaded := 0
	for {
		out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(prefix),
			Recursive:      aws.Bool(true),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return fmt.Errorf("read SSM parameters under %s: %w", prefix, err)
		}

		for _, p := range out.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if existing, ok := c[key]; ok && existing != "" {
				continue
			}
			c[key] = aws.ToString(p.Value)
			loaded++
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	log.Info().Str("path", prefix).Int("count", loaded).Msg("Loaded parameters from SSM")
	return nil
}

package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 180*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "database", cfg.AnalyticsBackend)
	assert.Nil(t, cfg.AcceptedOrigins)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=portfolio")
}

func TestLoadReadsEnvironment(t *testing.T) {
	cfg, err := Load(map[string]string{
		"DB_TYPE":          "sqlite",
		"SQLITE_PATH":      "/tmp/cms.db",
		"ACCEPTED_ORIGINS": "https://a.example, ,https://b.example",
		"TOKEN_TTL_HOURS":  "2",
		"PORT":             "9000",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cms.db", cfg.SQLitePath)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AcceptedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoadRejectsBadBackends(t *testing.T) {
	_, err := Load(map[string]string{"DB_TYPE": "mysql"})
	assert.Error(t, err)

	_, err = Load(map[string]string{"ANALYTICS_BACKEND": "clickhouse"})
	assert.ErrorContains(t, err, "CLICKHOUSE_HOST")

	_, err = Load(map[string]string{"ANALYTICS_BACKEND": "clickhouse", "CLICKHOUSE_HOST": "ch"})
	assert.NoError(t, err)
}

func TestGetters(t *testing.T) {
	env := map[string]string{"N": "x", "B": "yes", "T": "true", "EMPTY": ""}
	assert.Equal(t, 7, GetInt(env, "N", 7))
	assert.False(t, GetBool(env, "B", false))
	assert.True(t, GetBool(env, "T", false))
	assert.Equal(t, "fallback", GetString(env, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "N", "fallback"))
}

type fakeParameters struct {
	pages [][]ssmtypes.Parameter
	calls int
}

func (f *fakeParameters) GetParametersByPath(_ context.Context, _ *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestOverlayParametersFollowsPagesAndKeepsEnv(t *testing.T) {
	client := &fakeParameters{pages: [][]ssmtypes.Parameter{
		{{Name: aws.String("/portfolio/prod/jwt_secret"), Value: aws.String("from-ssm")}},
		{{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("1234")}},
	}}
	env := map[string]string{"PORT": "8080"}

	require.NoError(t, overlayParameters(context.Background(), client, "/portfolio/prod", env))
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "from-ssm", env["JWT_SECRET"])
	assert.Equal(t, "8080", env["PORT"])
}

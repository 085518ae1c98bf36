package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("LP_TEST_VALUE", "a=b")
	cfg := New()
	assert.Equal(t, "a=b", GetString(cfg, "LP_TEST_VALUE", ""))
}

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":         "9090",
		"BAD_INT":      "ninety",
		"FLAG":         "true",
		"BAD_FLAG":     "maybe",
		"TIMEOUT":      "90s",
		"TIMEOUT_SECS": "15",
		"BAD_TIMEOUT":  "soon",
		"REPLICAS":     " a , ,b,",
		"EMPTY_STRING": "",
	}

	assert.Equal(t, 9090, GetInt(cfg, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "MISSING", 8080))
	assert.Equal(t, 8080, GetInt(nil, "PORT", 8080))

	assert.True(t, GetBool(cfg, "FLAG", false))
	assert.False(t, GetBool(cfg, "BAD_FLAG", false))
	assert.True(t, GetBool(cfg, "MISSING", true))

	assert.Equal(t, 90*time.Second, GetDuration(cfg, "TIMEOUT", time.Second))
	assert.Equal(t, 15*time.Second, GetDuration(cfg, "TIMEOUT_SECS", time.Second))
	assert.Equal(t, time.Second, GetDuration(cfg, "BAD_TIMEOUT", time.Second))

	assert.Equal(t, []string{"a", "b"}, GetList(cfg, "REPLICAS"))
	assert.Nil(t, GetList(cfg, "MISSING"))

	assert.Equal(t, "", GetString(cfg, "EMPTY_STRING", "default"))
	assert.Equal(t, "default", GetString(nil, "EMPTY_STRING", "default"))
}

type fakeParameterStore struct {
	pages [][]types.Parameter
	err   error
	calls int
}

func (f *fakeParameterStore) GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestLoadSSM(t *testing.T) {
	store := &fakeParameterStore{pages: [][]types.Parameter{
		{{Name: aws.String("/lp/prod/JWT_SECRET"), Value: aws.String("from-ssm")}},
		{{Name: aws.String("/lp/prod/port"), Value: aws.String("7000")}},
	}}
	cfg := map[string]string{"PORT": "8080"}

	n, err := LoadSSM(context.Background(), store, "/lp/prod", cfg, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, store.calls)
	assert.Equal(t, "from-ssm", cfg["JWT_SECRET"])
	assert.Equal(t, "8080", cfg["PORT"], "environment wins unless overwrite is set")

	store = &fakeParameterStore{pages: [][]types.Parameter{
		{{Name: aws.String("/lp/prod/PORT"), Value: aws.String("7000")}},
	}}
	_, err = LoadSSM(context.Background(), store, "/lp/prod", cfg, true)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg["PORT"])
}

func TestLoadSSMError(t *testing.T) {
	store := &fakeParameterStore{err: errors.New("access denied")}
	_, err := LoadSSM(context.Background(), store, "/lp/prod", map[string]string{}, false)
	assert.ErrorContains(t, err, "access denied")
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultToolkitURL, cfg.Toolkit.BaseURL)
	assert.Equal(t, DefaultChargeMethod, cfg.Descriptor.ChargeMethod)
	assert.Equal(t, DefaultMinimisationMethod, cfg.Descriptor.MinimisationMethod)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultRequestTopic, cfg.Kafka.RequestTopic)
	assert.Equal(t, DefaultResultTopic, cfg.Kafka.ResultTopic)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)

	// precision is left alone; 0 is a legal value
	assert.Equal(t, 0, cfg.Descriptor.Precision)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Toolkit.Timeout = time.Second
	cfg.Descriptor.ChargeMethod = "MMFF94"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Toolkit.Timeout)
	assert.Equal(t, "MMFF94", cfg.Descriptor.ChargeMethod)
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := &Config{}
	cfg.Server.RateLimitRPS = 2.5
	ApplyDefaults(cfg)
	assert.Equal(t, 3, cfg.Server.RateLimitBurst)

	cfg = &Config{}
	ApplyDefaults(cfg)
	assert.Zero(t, cfg.Server.RateLimitBurst)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultPrecision, cfg.Descriptor.Precision)
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

//Personal.AI order the ending

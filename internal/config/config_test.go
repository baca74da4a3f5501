package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 15, cfg.K8sTimeoutSec)
	assert.Equal(t, "kubeowler", cfg.NodeInspectorNamespace)
	assert.Equal(t, 10, cfg.RestartWarnThreshold)
	assert.Equal(t, 30, cfg.RestartCriticalThreshold)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("KUBEOWLER_LOG_LEVEL", "debug")
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingExplicitFileIsNotAnError(t *testing.T) {
	cfg, err := Load("/nonexistent/kube-inspector-config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

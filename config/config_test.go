package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "ausente.env"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, PrivilegeUser, cfg.Privilege)
	assert.Equal(t, "X-CSRF-TOKEN", cfg.CSRFHeader)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 8*time.Hour, cfg.CSRFTokenExpiry())
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	os.Clearenv()

	path := filepath.Join(t.TempDir(), ".env")
	content := "PRIVILEGE=admin\nAPI_BASE_URL=http://sandbox:9090\nREQUEST_TIMEOUT_SEC=3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, PrivilegeAdmin, cfg.Privilege)
	assert.Equal(t, "http://sandbox:9090", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout())
}

func TestLoadConfig_Fail_InvalidPrivilege(t *testing.T) {
	os.Clearenv()
	t.Setenv("PRIVILEGE", "root")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "ausente.env"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PRIVILEGE")
}

func TestValidate_Fail_NonPositiveTimeout(t *testing.T) {
	cfg := &Config{Privilege: PrivilegeUser, APIBaseURL: "http://x", RequestTimeoutSec: 0, CSRFHeader: "X", CSRFTokenExpiryMin: 1}
	assert.Error(t, cfg.Validate())
}

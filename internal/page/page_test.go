package page_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/config"
	"stockdesk/internal/client/inventoryapi"
	"stockdesk/internal/page"
)

const sample = `base_url: http://localhost:9090
privilege: admin
csrf:
  header: X-CSRF-TOKEN
  token: abc
products:
  - id: 1
    name: Parafuso
    stock: 15
    deleted: false
  - id: 2
    name: Porca
    stock: 0
    deleted: true
users:
  - id: u-1
    username: ana
    role: user
    deleted: false
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestLoad_Success(t *testing.T) {
	p, err := page.Load(writeSample(t))
	require.NoError(t, err)

	assert.True(t, p.IsAdmin())
	assert.Equal(t, inventoryapi.AdminUpdateStockPath, p.Endpoint())
	assert.Equal(t, "abc", p.CSRF.Token)
	require.Len(t, p.Products, 2)

	prod, err := p.Product(2)
	require.NoError(t, err)
	assert.Equal(t, "Porca", prod.Name)
	assert.True(t, prod.Deleted)

	u, ok := p.User("u-1")
	assert.True(t, ok)
	assert.Equal(t, "ana", u.Username)
}

func TestLoad_DefaultPrivilege(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: []\n"), 0o644))

	p, err := page.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.PrivilegeUser, p.Privilege)
	assert.Equal(t, inventoryapi.UserUpdateStockPath, p.Endpoint())
}

func TestLoad_Fail(t *testing.T) {
	_, err := page.Load(filepath.Join(t.TempDir(), "nao-existe.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: [\n"), 0o644))
	_, err = page.Load(path)
	assert.Error(t, err)
}

func TestPatchStock_SaveRoundTrip(t *testing.T) {
	path := writeSample(t)
	p, err := page.Load(path)
	require.NoError(t, err)

	require.NoError(t, p.PatchStock(1, 10))
	require.NoError(t, p.MarkDeleted(2, false))
	assert.ErrorIs(t, p.PatchStock(99, 1), page.ErrProductNotFound)

	require.NoError(t, p.Save(path))
	reloaded, err := page.Load(path)
	require.NoError(t, err)

	prod, err := reloaded.Product(1)
	require.NoError(t, err)
	assert.Equal(t, 10, prod.Stock)
	prod, err = reloaded.Product(2)
	require.NoError(t, err)
	assert.False(t, prod.Deleted)
}

func TestClientOptions_FallsBackToConfig(t *testing.T) {
	cfg := &config.Config{APIBaseURL: "http://api", CSRFHeader: "X-XSRF", RequestTimeoutSec: 3}
	p := &page.Page{CSRF: page.CSRF{Token: "t"}}

	opts := p.ClientOptions(cfg)

	assert.Equal(t, "http://api", opts.BaseURL)
	assert.Equal(t, "X-XSRF", opts.CSRFHeader)
	assert.Equal(t, "t", opts.CSRFToken)
	assert.False(t, opts.Admin)
	assert.Equal(t, cfg.RequestTimeout(), opts.Timeout)
}

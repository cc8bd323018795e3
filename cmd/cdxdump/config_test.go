package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"www.velocidex.com/golang/cdx"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "cdxdump.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
rigid = true
max_depth = 64
catalogs = ["extra.yaml", "  ", " more.json "]
`)

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, dumpConfig{
		Rigid:    true,
		MaxDepth: 64,
		Catalogs: []string{"extra.yaml", "more.json"},
	}, config)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(writeConfig(t, "max_nodes = -1\n"))
	assert.Error(t, err)

	_, err = loadConfig(writeConfig(t, "max_depth = \"deep\"\n"))
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMergeConfig(t *testing.T) {
	file := dumpConfig{
		MaxDepth: 64,
		MaxNodes: 1000,
		Catalogs: []string{"extra.yaml"},
		Verbose:  true,
	}

	merged := file.merge(dumpConfig{
		Rigid:    true,
		MaxNodes: 50,
		Catalogs: []string{"local.yaml", ""},
	})

	assert.Equal(t, dumpConfig{
		Rigid:    true,
		MaxDepth: 64,
		MaxNodes: 50,
		Catalogs: []string{"extra.yaml", "local.yaml"},
		Verbose:  true,
	}, merged)

	// The file's catalogs are not modified.
	assert.Equal(t, []string{"extra.yaml"}, file.Catalogs)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	yaml_path := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(yaml_path, []byte(`
properties:
  - [Vendor_Note, 0x7F00, PlainString]
`), 0644))

	json_path := filepath.Join(dir, "extra.JSON")
	require.NoError(t, os.WriteFile(json_path, []byte(`{
  "objects": [["Vendor_Box", "0xFF00", ["Text"]]]
}`), 0644))

	catalog, err := loadCatalog([]string{yaml_path, json_path})
	require.NoError(t, err)

	assert.Equal(t, "Vendor_Note", catalog.TagName(0x7F00))
	assert.Equal(t, "Vendor_Box", catalog.TagName(0xFF00))

	// Built in definitions are still there.
	assert.Equal(t, "Document", catalog.TagName(0x8000))

	_, err = loadCatalog([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func testSession(t *testing.T) (*session, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)

	catalog, err := loadCatalog(nil)
	require.NoError(t, err)

	scope := cdx.MakeScope()
	return &session{
		logger:  zap.New(core),
		scope:   scope,
		catalog: catalog,
	}, logs
}

func TestRunCommandErrors(t *testing.T) {
	self, logs := testSession(t)

	path := filepath.Join(t.TempDir(), "bad.cdx")
	require.NoError(t, os.WriteFile(path, cdx.NewEncoder(0x8000, 1).
		Property(0x7abc, []byte{1}).
		EndObject().
		Bytes(), 0644))

	// Failing commands return their error to the caller so the
	// session can still be closed.
	*get_file = path
	*get_path = "NoSuchPath"
	err := runCommand(context.Background(), self, get_command.FullCommand())
	assert.Error(t, err)

	*dump_file = filepath.Join(t.TempDir(), "missing.cdx")
	err = runCommand(context.Background(), self, dump_command.FullCommand())
	assert.Error(t, err)

	assert.Error(t, runCommand(context.Background(), self, "no_such_command"))

	self.Close()

	warnings := logs.FilterMessage("document has recoverable faults").All()
	require.Equal(t, 1, len(warnings))
	assert.Equal(t, path, warnings[0].ContextMap()["file"])
}

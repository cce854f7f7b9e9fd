package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/jcodec/internal/jlog"
)

func TestDecodeCommandPrintsIndentedValue(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in.json", []byte(`{"b":2,"a":1}`), 0o644))

	cmd := newDecodeCmd(fs, jlog.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"/in.json"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "{\n  \"a\":1,\n  \"b\":2\n}\n", out.String())
}

func TestDecodeCommandMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cmd := newDecodeCmd(fs, jlog.New())
	cmd.SetArgs([]string{"/missing.json"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestDecodeCommandInvalidJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"a":}`), 0o644))
	cmd := newDecodeCmd(fs, jlog.New())
	cmd.SetArgs([]string{"/bad.json"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestStreamCommandCountsDocuments(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs.jsonl", []byte(`{"a":1}`+"\n"+`{"a":2}`+"\n"), 0o644))

	cmd := newStreamCmd(fs, jlog.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"/docs.jsonl"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "document 1")
	assert.Contains(t, out.String(), "document 2")
}

func TestRoundtripCommandCompactOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in.json", []byte(`{"b":2,"a":1}`), 0o644))

	cmd := newRoundtripCmd(fs, jlog.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"/in.json"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, `{"a":1,"b":2}`+"\n", out.String())
}

func TestProbeCommandStreamsPositionalMetadata(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/arr.json", []byte(`[1,2,3]`), 0o644))

	cmd := newProbeCmd(fs, jlog.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--depth", "1", "/arr.json"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "value=1")
	assert.Contains(t, out.String(), "value=2")
	assert.Contains(t, out.String(), "value=3")
	assert.Contains(t, out.String(), "depth=1")
}

func TestProbeCommandMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cmd := newProbeCmd(fs, jlog.New())
	cmd.SetArgs([]string{"/missing.json"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["decode"])
	assert.True(t, names["stream"])
	assert.True(t, names["roundtrip"])
	assert.True(t, names["probe"])
}

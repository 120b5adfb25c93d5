package flagx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.yaml", "-http", ":3001"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.yaml"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-http", ":3001"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag has no value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "multiple allowed flags kept in order",
			args:         []string{"-http", ":8080", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-http"},
			want:         []string{"-http", ":8080", "-c", "conf.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/path/short.json", ConfigFileFlag([]string{"-c", "/path/short.json"}))
	assert.Equal(t, "/path/long.yaml", ConfigFileFlag([]string{"-config", "/path/long.yaml"}))
	assert.Equal(t, "/path/dd.yml", ConfigFileFlag([]string{"--config=/path/dd.yml", "-grpc", ":1"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1", "-y", "2"}))
	assert.Equal(t, "/path/2.json", ConfigFileFlag([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
}

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

func TestDecodeFile_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name":"j","items":["a","b"]}`), 0o600))
	var j sample
	require.NoError(t, DecodeFile(jsonPath, &j))
	assert.Equal(t, sample{Name: "j", Items: []string{"a", "b"}}, j)

	yamlPath := filepath.Join(dir, "c.YAML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: y\nitems:\n  - c\n"), 0o600))
	var y sample
	require.NoError(t, DecodeFile(yamlPath, &y))
	assert.Equal(t, sample{Name: "y", Items: []string{"c"}}, y)
}

func TestDecodeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	var s sample
	err := DecodeFile(filepath.Join(dir, "missing.json"), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	err = DecodeFile(bad, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		caption string
		env     map[string]string
		config  *Config
		err     bool
	}{
		{
			caption: "defaults apply when nothing is set",
			config: &Config{
				Compiler: "ccg2xml",
				Timeout:  2 * time.Minute,
			},
		},
		{
			caption: "the environment overrides the defaults",
			env: map[string]string{
				EnvCompiler: "python3 ccg2xml.py",
				EnvTimeout:  "30s",
				EnvKeep:     "true",
			},
			config: &Config{
				Compiler: "python3 ccg2xml.py",
				Timeout:  30 * time.Second,
				Keep:     true,
			},
		},
		{
			caption: "blank values are treated as unset",
			env: map[string]string{
				EnvCompiler: "  ",
				EnvTimeout:  "",
			},
			config: &Config{
				Compiler: "ccg2xml",
				Timeout:  2 * time.Minute,
			},
		},
		{
			caption: "a timeout must be a duration",
			env: map[string]string{
				EnvTimeout: "two minutes",
			},
			err: true,
		},
		{
			caption: "keep must be a boolean",
			env: map[string]string{
				EnvKeep: "maybe",
			},
			err: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			for _, k := range []string{EnvCompiler, EnvTimeout, EnvKeep} {
				t.Setenv(k, tt.env[k])
			}

			c, err := Load()
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.config, c)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "ccgcheck.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CCG2XML=/opt/openccg/bin/ccg2xml\nCCG2XML_TIMEOUT=5s\n"), 0644))

	// godotenv sets variables only when they are absent, so start from a clean environment.
	t.Setenv(EnvCompiler, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvKeep, "")
	os.Unsetenv(EnvCompiler)
	os.Unsetenv(EnvTimeout)

	c, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/opt/openccg/bin/ccg2xml", c.Compiler)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.False(t, c.Keep)

	_, err = Load(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

// chdir changes the working directory until the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
	})
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv(EnvCompiler, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvKeep, "")
	os.Unsetenv(EnvCompiler)

	t.Run("a missing .env is ignored", func(t *testing.T) {
		chdir(t, t.TempDir())
		c, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "ccg2xml", c.Compiler)
	})

	t.Run("a malformed .env is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CCG2XML=\"ccg2xml\n"), 0644))
		chdir(t, dir)
		_, err := Load()
		assert.Error(t, err)
	})
}

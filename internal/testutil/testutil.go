// Package testutil provides shared test helpers for creating config files and attempt fixtures.
package testutil

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/enrollease/enrollease/internal/quiz"
)

// SetupTestConfig creates a minimal config file using the YAML attempt store and
// all required directories for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"attempts", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`quiz:
  topic: geography
  timezone: UTC
  storage: yaml
  attempts_directory: %s
reports:
  output_directory: %s
`,
		filepath.Join(tmpDir, "attempts"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with a fake OpenAI API key for tests
// that require API key validation to pass.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// WriteAttempts stores attempts for userID in the layout the YAML attempt store reads.
func WriteAttempts(t *testing.T, attemptsDir, userID string, attempts []quiz.Attempt) string {
	t.Helper()

	content, err := yaml.Marshal(attempts)
	require.NoError(t, err)

	path := filepath.Join(attemptsDir, url.PathEscape(userID)+".yml")
	require.NoError(t, os.MkdirAll(attemptsDir, 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

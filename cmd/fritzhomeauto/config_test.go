/*
 * Copyright 2026 Holger de Carne
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	const configData = `
host: fritz.example.net
user: fritz1337
password: ${FRITZ_TEST_PASSWORD}
log:
  level: debug
`
	t.Setenv("FRITZ_TEST_PASSWORD", "1example")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(configPath, []byte(configData), 0600)
	require.NoError(t, err)

	cfg, err := loadConfig(configPath)
	require.NoError(t, err)
	require.Equal(t, "fritz.example.net", cfg.Host)
	require.Equal(t, "fritz1337", cfg.User)
	require.Equal(t, "1example", cfg.Password)
	require.Equal(t, "debug", cfg.Log.Level)
	// unset values fall back to defaults
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, "fritz.box", cfg.Host)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.Error(t, err)
}

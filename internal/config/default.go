package config

import (
	"os"

	"github.com/google/renameio/v2"
)

// DefaultYAML is the commented starter configuration written by the
// init command.
const DefaultYAML = `# bookscout configuration
log:
  level: info      # debug, info, warn, error
  format: auto     # auto, text, json
  file: ""         # log file while the TUI is active (empty: discard logs)

catalog:
  source: http     # http or file
  base_url: http://localhost:4100
  file: ""         # catalog YAML path when source is file
  timeout: 15s
  rate_per_second: 5
  max_retries: 2

session:
  base_url: http://localhost:4200
  timeout: 10s

agent:
  base_url: http://localhost:4300
  timeout: 60s

ui:
  debounce: 300ms  # quiet window before a search fires
  toast_ttl: 4s    # how long notifications stay visible
  stats: false     # show the resource footer
`

// WriteDefault writes the starter configuration to path atomically.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.ErrExist
	}
	return renameio.WriteFile(path, []byte(DefaultYAML), 0o600)
}

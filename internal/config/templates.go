package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[display]
# PnL display mode: "usd", "percent" or "rr"
mode = "usd"
# Display currency: USD, CZK, EUR
currency = "USD"
# Show a leading "+" on positive values
show_sign = true

[stats]
# Cap applied to the profit factor when there are no losses
profit_factor_cap = 9.99
# Starting account balance used for percentage gains
initial_balance = 10000.0

[rates]
# Exchange-rate API endpoint
endpoint = "https://api.frankfurter.app"
# Cache lifetime in hours
ttl_hours = 6

[storage]
# SQLite database path (defaults next to this file)
db_path = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
fleetmaster - fleet management backend

Usage:
  fleetmaster [flags]

Flags:
  -config-path string   path to the YAML config file (default "config.yaml")
  -log-level string     log level: DEBUG, INFO, WARN or ERROR (default "DEBUG")
  -help                 print this message and exit

Configuration is read from the YAML file and overridden by environment
variables (SERVER_PORT, DATABASE_*, RABBITMQ_*, AUTH_*, THROTTLE_*).
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

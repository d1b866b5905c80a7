package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/enrollease/enrollease/internal/config"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

type userOptions struct {
	userID string
}

// userFlags is shared by every command that acts on a single user.
func userFlags(options *userOptions) *pflag.FlagSet {
	flags := pflag.NewFlagSet("user", pflag.ContinueOnError)
	flags.StringVarP(&options.userID, "user", "u", "", "ID of the user taking the daily quiz")
	return flags
}

func (options userOptions) validate() error {
	if strings.TrimSpace(options.userID) == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

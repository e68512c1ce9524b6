package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/rules"
)

type rawConfig struct {
	Abilities []rules.Ability        `json:"ability_list"`
	Effects   []rules.EffectBehavior `json:"effect_list"`
	Tuning    rules.Tuning           `json:"tuning"`
	Server    *struct {
		Address              string `json:"address"`
		ActionTimeoutSeconds int    `json:"action_timeout_seconds"`
	} `json:"server"`
}

// LoadedConfig bundles the validated rule set and the server settings.
type LoadedConfig struct {
	Rules *rules.Rules
	// Warnings are non-fatal catalog notes (priority band deviations);
	// callers should log them and proceed.
	Warnings      []string
	ServerAddress string
	ActionTimeout time.Duration
}

const defaultActionTimeout = 60 * time.Second

// LoadConfig reads the configuration file at path and builds the immutable
// rule set. It requires `ability_list`, `effect_list` and `tuning`
// (snake_case); any validation failure aborts startup.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.Abilities) == 0 {
		return nil, fmt.Errorf("config file %s: ability_list is empty (provide 'ability_list' array)", path)
	}
	if len(rc.Effects) == 0 {
		return nil, fmt.Errorf("config file %s: effect_list is empty (provide 'effect_list' array)", path)
	}

	rl, warnings, err := rules.New(rc.Abilities, rc.Effects, rc.Tuning)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	addr := ":8080"
	timeout := defaultActionTimeout
	if rc.Server != nil {
		if rc.Server.Address != "" {
			addr = rc.Server.Address
		}
		if rc.Server.ActionTimeoutSeconds > 0 {
			timeout = time.Duration(rc.Server.ActionTimeoutSeconds) * time.Second
		}
	}

	return &LoadedConfig{
		Rules:         rl,
		Warnings:      warnings,
		ServerAddress: addr,
		ActionTimeout: timeout,
	}, nil
}

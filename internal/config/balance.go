package config

import (
	"fmt"
	"os"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
	"gopkg.in/yaml.v3"
)

// LoadBalance overlays a YAML file on the default balance. Keys the file
// leaves out keep their default values.
func LoadBalance(path string) (game.Balance, error) {
	b := game.DefaultBalance()
	if path == "" {
		return b, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return game.Balance{}, err
	}
	return ParseBalance(raw)
}

func ParseBalance(raw []byte) (game.Balance, error) {
	b := game.DefaultBalance()
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return game.Balance{}, fmt.Errorf("balance: %w", err)
	}
	if err := b.Validate(); err != nil {
		return game.Balance{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return b, nil
}

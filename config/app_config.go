package config

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// This is the global app config for the blockchain.
type AppConfig struct {
	// How many leading 0 hex characters form a valid hash.
	DIFFICULTY uint32 `yaml:"difficulty"`
	// Goroutines searching for a nonce. 1 or less mines on the calling goroutine.
	MINING_WORKERS int `yaml:"mining_workers"`
	// Check funds against committed balance minus pending debits instead of committed
	// balance only.
	STRICT_BALANCE bool `yaml:"strict_balance"`
	// Address that issues coins. It is never debited and skips the funds check.
	MINT_ADDRESS string `yaml:"mint_address"`
	// Balances handed out by the genesis block, address to decimal amount.
	GENESIS_ALLOCATIONS map[string]string `yaml:"genesis_allocations"`
	// Log engine activity.
	VERBOSE bool `yaml:"verbose"`
}

const DefaultMintAddress = "genesis"

func DefaultAppConfig() AppConfig {
	return AppConfig{
		DIFFICULTY:     2,
		MINING_WORKERS: 1,
		MINT_ADDRESS:   DefaultMintAddress,
		VERBOSE:        true,
	}
}

// ParseAppConfig reads a yaml file on top of the defaults.
func ParseAppConfig(path string) (AppConfig, error) {
	c := DefaultAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func (c AppConfig) Validate() error {
	if c.DIFFICULTY > 64 {
		return fmt.Errorf("difficulty %d exceeds the 64 hex characters of a hash", c.DIFFICULTY)
	}
	if c.MINT_ADDRESS == "" {
		return errors.New("mint address is empty")
	}
	_, err := c.Allocations()
	return err
}

// Allocations parses GENESIS_ALLOCATIONS.
func (c AppConfig) Allocations() (map[string]decimal.Decimal, error) {
	res := make(map[string]decimal.Decimal, len(c.GENESIS_ALLOCATIONS))
	for addr, v := range c.GENESIS_ALLOCATIONS {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("genesis allocation for %s: %w", addr, err)
		}
		if !amount.IsPositive() {
			return nil, fmt.Errorf("genesis allocation for %s must be positive, got %s", addr, v)
		}
		res[addr] = amount
	}
	return res, nil
}

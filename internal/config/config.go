// Package config loads the wallet configuration from a TOML file, a .env file and
// APP_ prefixed environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github/chapool/web3-hd/internal/wallet/chain"
)

const (
	EnvPrefix          = "APP"
	DefaultConfigName  = "config"
	DefaultEnvFile     = ".env"
	DefaultConcurrency = 4
	DefaultLogLevel    = "info"

	DefaultTokenDecimals int32 = 18

	redacted = "[redacted]"
)

// Keys.
const (
	KeyMnemonic       = "hd_phrase"
	KeyPassphrase     = "hd_passphrase"
	KeyVerifyAddress  = "hd_verify_address"
	KeyConcurrency    = "concurrency"
	KeyLoggerLevel    = "logger.level"
	KeyLoggerPretty   = "logger.pretty"
	KeyMetricsFile    = "metrics_file"
	suffixProvider    = "_provider"
	suffixTokens      = "_tokens"
	suffixSafe        = "_safe"
	keySweeper        = "sweeper"
	keySweeperTron    = "sweeper_tron_address"
	tokenFieldsSymbol = 2
	tokenFieldsFull   = 3
)

type Config struct {
	Wallet      Wallet       `toml:"wallet"`
	Logger      LoggerServer `toml:"logger"`
	MetricsFile string       `toml:"metrics_file"`
}

type LoggerServer struct {
	Level              string `toml:"level"`
	PrettyPrintConsole bool   `toml:"pretty"`
}

// Wallet is everything the wallet manager needs. Chains is keyed by chain.Key().
type Wallet struct {
	Mnemonic      string           `toml:"hd_phrase"`
	Passphrase    string           `toml:"hd_passphrase"`
	VerifyAddress string           `toml:"hd_verify_address"`
	Concurrency   int              `toml:"concurrency"`
	Chains        map[string]Chain `toml:"chains"`
}

type Chain struct {
	RPCURLs []string `toml:"provider"`
	Tokens  []Token  `toml:"tokens"`
	Safe    string   `toml:"safe"`
}

type Token struct {
	Symbol   string `toml:"symbol"`
	Address  string `toml:"address"`
	Decimals int32  `toml:"decimals"`
}

// Chain returns the settings of c. Unconfigured chains yield the zero value.
func (w Wallet) Chain(c chain.Chain) Chain {
	return w.Chains[c.Key()]
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	out := c
	if out.Wallet.Mnemonic != "" {
		out.Wallet.Mnemonic = redacted
	}
	if out.Wallet.Passphrase != "" {
		out.Wallet.Passphrase = redacted
	}
	return out
}

// NewViper prepares a viper instance reading configFile (or ./config.toml when
// empty), envFile and the environment. A missing default config file is fine.
func NewViper(configFile string, envFile string) (*viper.Viper, error) {
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "failed to load env file %s", envFile)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConcurrency, DefaultConcurrency)
	v.SetDefault(KeyLoggerLevel, DefaultLogLevel)
	v.SetDefault(KeyLoggerPretty, true)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return v, nil
	}

	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	return v, nil
}

// Load builds the Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Wallet: Wallet{
			Mnemonic:      v.GetString(KeyMnemonic),
			Passphrase:    v.GetString(KeyPassphrase),
			VerifyAddress: v.GetString(KeyVerifyAddress),
			Concurrency:   v.GetInt(KeyConcurrency),
			Chains:        make(map[string]Chain),
		},
		Logger: LoggerServer{
			Level:              v.GetString(KeyLoggerLevel),
			PrettyPrintConsole: v.GetBool(KeyLoggerPretty),
		},
		MetricsFile: v.GetString(KeyMetricsFile),
	}

	if cfg.Wallet.Concurrency <= 0 {
		cfg.Wallet.Concurrency = DefaultConcurrency
	}

	for _, c := range chain.All() {
		key := c.Key()

		tokens, err := ParseTokens(list(v.Get(key + suffixTokens)))
		if err != nil {
			return Config{}, errors.Wrapf(err, "invalid %s%s", key, suffixTokens)
		}

		cfg.Wallet.Chains[key] = Chain{
			RPCURLs: list(v.Get(key + suffixProvider)),
			Tokens:  tokens,
			Safe:    safeAddress(v, c),
		}
	}

	return cfg, nil
}

// safeAddress falls back to the sweeper addresses of older configurations.
func safeAddress(v *viper.Viper, c chain.Chain) string {
	if safe := strings.TrimSpace(v.GetString(c.Key() + suffixSafe)); safe != "" {
		return safe
	}

	if c.Family() == chain.FamilyTron {
		return strings.TrimSpace(v.GetString(keySweeperTron))
	}
	return strings.TrimSpace(v.GetString(keySweeper))
}

// list accepts a comma separated string (environment) or an array (TOML).
func list(raw any) []string {
	var items []string

	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		return chain.ParseRPCURLs(val)
	case []string:
		items = val
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	default:
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// ParseTokens parses entries of the form "address", "SYMBOL:address" or
// "SYMBOL:address:decimals". The symbol defaults to the address and the decimals
// to 18.
func ParseTokens(entries []string) ([]Token, error) {
	tokens := make([]Token, 0, len(entries))

	for _, entry := range entries {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		token := Token{Decimals: DefaultTokenDecimals}

		switch len(parts) {
		case 1:
			token.Address = parts[0]
			token.Symbol = parts[0]
		case tokenFieldsSymbol, tokenFieldsFull:
			token.Symbol = parts[0]
			token.Address = parts[1]

			if len(parts) == tokenFieldsFull {
				decimals, err := strconv.ParseInt(parts[2], 10, 32)
				if err != nil || decimals < 0 {
					return nil, errors.Errorf("invalid decimals in token entry %q", entry)
				}
				token.Decimals = int32(decimals)
			}
		default:
			return nil, errors.Errorf("invalid token entry %q", entry)
		}

		if token.Address == "" || token.Symbol == "" {
			return nil, errors.Errorf("invalid token entry %q", entry)
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

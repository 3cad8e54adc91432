// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/go-socks/socks"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/chaincfg"
	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/version"
)

const (
	defaultConfigFilename = "matchain.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "matchain.log"
	defaultErrLogFilename = "matchain_err.log"

	// defaultMinerKey seeds the mining commitment when no --miningaddr is
	// given. The commitment is the digest of this literal.
	defaultMinerKey = "minerKey"
)

var (
	// DefaultHomeDir is the default home directory for matchain.
	DefaultHomeDir = btcutil.AppDataDir("matchain", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)
)

var activeConfig *Config

// Flags defines the configuration options for matchain.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion          bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile           string   `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir               string   `long:"logdir" description:"Directory to log output."`
	DebugLevel           string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`
	BlockReward          uint64   `long:"blockReward" description:"Initial block subsidy in whole coins"`
	BlockHalvingInterval uint64   `long:"blockHalvingInterval" description:"Number of blocks between block subsidy halvings"`
	TargetSpacing        uint64   `long:"targetSpacing" description:"Advisory number of seconds between blocks (not enforced)"`
	GenesisMessage       string   `long:"genesisMessage" description:"Message embedded in the genesis coinbase"`
	P2PPort              uint16   `long:"p2pPort" description:"Port used to listen for peer connections"`
	SeedNodes            []string `long:"seedNodes" description:"Add a seed node to connect to on startup (host:port)"`
	Proxy                string   `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser            string   `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass            string   `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	Seed                 bool     `long:"seed" description:"Run as a bootstrap (seed) peer"`
	Miner                bool     `long:"miner" description:"Run a full node plus the CPU mining driver"`
	Wallet               bool     `long:"wallet" description:"Launch the external wallet UI"`
	MiningAddr           string   `long:"miningaddr" description:"Recipient commitment (64 hex characters) to use for generated blocks"`
}

// Config defines the configuration options for matchain.
//
// See loadConfig for details on the configuration load process.
type Config struct {
	*Flags

	// MiningCommitment is the recipient commitment coinbase outputs of
	// generated blocks pay to.
	MiningCommitment hashes.Hash

	// Dial connects to the address on the named network. It is the proxy
	// dialer when a proxy is configured.
	Dial func(network, address string, timeout time.Duration) (net.Conn, error)
}

// NetParams returns the network parameters with the configured overrides
// applied.
func (cfg *Config) NetParams() *chaincfg.Params {
	params := chaincfg.MainNetParams
	params.BlockReward = cfg.BlockReward
	params.BlockHalvingInterval = cfg.BlockHalvingInterval
	params.TargetTimePerBlock = time.Duration(cfg.TargetSpacing) * time.Second
	params.GenesisMessage = cfg.GenesisMessage
	params.DefaultPort = cfg.P2PPort
	return &params
}

// LogFile returns the path of the log file.
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, defaultLogFilename)
}

// ErrLogFile returns the path of the error log file.
func (cfg *Config) ErrLogFile() string {
	return filepath.Join(cfg.LogDir, defaultErrLogFilename)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfgFlags *Flags, options flags.Options) *flags.Parser {
	return flags.NewParser(cfgFlags, options)
}

// LoadAndSetActiveConfig loads the config that can afterward be accessible
// through ActiveConfig().
func LoadAndSetActiveConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	activeConfig = cfg
	return nil
}

// ActiveConfig is a getter to the main config.
func ActiveConfig() *Config {
	return activeConfig
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Unknown keys in the configuration file are ignored; missing keys take the
// defaults.
func loadConfig() (*Config, error) {
	cfgFlags := Flags{
		ConfigFile:           defaultConfigFile,
		LogDir:               defaultLogDir,
		DebugLevel:           defaultLogLevel,
		BlockReward:          chaincfg.MainNetParams.BlockReward,
		BlockHalvingInterval: chaincfg.MainNetParams.BlockHalvingInterval,
		TargetSpacing:        uint64(chaincfg.MainNetParams.TargetTimePerBlock / time.Second),
		GenesisMessage:       chaincfg.MainNetParams.GenesisMessage,
		P2PPort:              chaincfg.MainNetParams.DefaultPort,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfgFlags
	preParser := newConfigParser(&preCfg, flags.HelpFlag|flags.IgnoreUnknown)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file. Unrecognized options, both in the
	// file and on the command line, are ignored so that unknown modes fall
	// through to the full-node default.
	parser := newConfigParser(&cfgFlags, flags.HelpFlag|flags.IgnoreUnknown)
	cfg := &Config{
		Flags: &cfgFlags,
	}
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	if _, err := os.Stat(configFile); err == nil || preCfg.ConfigFile != defaultConfigFile {
		err := flags.NewIniParser(parser).ParseFile(configFile)
		if err != nil {
			if _, ok := err.(*os.PathError); !ok {
				fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
				fmt.Fprintln(os.Stderr, usageMessage)
				return nil, err
			}
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	// Create the home directory if it doesn't already exist.
	err = os.MkdirAll(DefaultHomeDir, 0700)
	if err != nil {
		return nil, errors.Errorf("failed to create home directory: %s", err)
	}

	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if cfg.BlockHalvingInterval == 0 {
		return nil, errors.New("the --blockHalvingInterval option may not be 0")
	}

	// Resolve the mining commitment. An explicit --miningaddr must be a
	// 64-character hex digest; otherwise mining pays to the digest of the
	// default miner key.
	if cfg.MiningAddr != "" {
		commitment, err := hashes.NewHashFromStr(cfg.MiningAddr)
		if err != nil {
			return nil, errors.Errorf("the --miningaddr option must be a "+
				"%d-character hex digest: %s", hashes.HexHashSize, err)
		}
		cfg.MiningCommitment = *commitment
	} else {
		cfg.MiningCommitment = hashes.HashData([]byte(defaultMinerKey))
	}

	// Validate and normalize the seed node addresses.
	cfg.SeedNodes, err = normalizeAddresses(cfg.SeedNodes, cfg.P2PPort)
	if err != nil {
		return nil, err
	}

	// Setup dial function depending on the specified options. The default
	// is to use the standard net.DialTimeout function. When a proxy is
	// specified, the dial function is set to the proxy specific dial
	// function.
	cfg.Dial = net.DialTimeout
	if cfg.Proxy != "" {
		_, _, err := net.SplitHostPort(cfg.Proxy)
		if err != nil {
			return nil, errors.Errorf("invalid proxy address %q: %s", cfg.Proxy, err)
		}
		proxy := &socks.Proxy{
			Addr:     cfg.Proxy,
			Username: cfg.ProxyUser,
			Password: cfg.ProxyPass,
		}
		cfg.Dial = proxy.DialTimeout
	}

	return cfg, nil
}

// normalizeAddresses validates the passed host:port addresses, applying the
// default port where none is given, and removes duplicates.
func normalizeAddresses(addrs []string, defaultPort uint16) ([]string, error) {
	seen := map[string]struct{}{}
	result := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			// The only recoverable parse failure is a missing port, which
			// takes the default.
			var addrErr *net.AddrError
			if !errors.As(err, &addrErr) || addrErr.Err != "missing port in address" {
				return nil, errors.Errorf("invalid seed node address %q: %s", addr, err)
			}
			host, port = addr, strconv.Itoa(int(defaultPort))
		}
		normalized := net.JoinHostPort(host, port)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result, nil
}

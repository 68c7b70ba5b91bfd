package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/hetenyib/qiskit-qec/pkg/pipeline"
)

// Cache backend names accepted in the [cache] section.
const (
	cacheBackendFile  = "file"
	cacheBackendNull  = "null"
	cacheBackendRedis = "redis"
)

// Store backend names accepted in the [server] section.
const (
	storeBackendMemory = "memory"
	storeBackendMongo  = "mongo"
)

// Config is the TOML configuration read from ~/.config/qec/config.toml.
// Every field has a built-in default, so the file is optional and may set
// only the keys it cares about. Command-line flags override config values.
type Config struct {
	Code   CodeConfig   `toml:"code"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// CodeConfig sets default code parameters for commands that build circuits.
type CodeConfig struct {
	Distance int    `toml:"distance"`
	Rounds   int    `toml:"rounds"`
	Basis    string `toml:"basis"`
	Resets   bool   `toml:"resets"`
	Logical  string `toml:"logical"`
	Shots    int    `toml:"shots"`
	Seed     int64  `toml:"seed"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	Store           string `toml:"store"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects the cache backend shared by all commands.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Code: CodeConfig{
			Distance: pipeline.DefaultDistance,
			Rounds:   pipeline.DefaultRounds,
			Basis:    pipeline.DefaultBasis,
			Resets:   true,
			Logical:  pipeline.DefaultLogical,
			Shots:    pipeline.DefaultShots,
			Seed:     pipeline.DefaultSeed,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			Store:           storeBackendMemory,
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "qec",
			MongoCollection: "batches",
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// LoadConfig reads the TOML configuration from path. An empty path means
// the default location; a missing file at the default location is not an
// error and yields DefaultConfig. Unknown keys are rejected so typos in
// the file surface instead of being silently ignored.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = configPath()
		if err != nil {
			return DefaultConfig(), nil
		}
	}

	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// configPath returns the default config file location using the XDG
// convention (~/.config/qec/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// codeOptions seeds pipeline options from the [code] config section.
func codeOptions(cfg CodeConfig) pipeline.Options {
	return pipeline.Options{
		Distance: cfg.Distance,
		Rounds:   cfg.Rounds,
		Basis:    cfg.Basis,
		Resets:   cfg.Resets,
		Logical:  cfg.Logical,
		Shots:    cfg.Shots,
		Seed:     cfg.Seed,
	}
}

// addCodeFlags registers the shared code-parameter flags, defaulting to
// the configured values in opts.
func addCodeFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVarP(&opts.Distance, "distance", "d", opts.Distance, "code distance")
	cmd.Flags().IntVarP(&opts.Rounds, "rounds", "t", opts.Rounds, "syndrome measurement rounds")
	cmd.Flags().StringVarP(&opts.Basis, "basis", "b", opts.Basis, "code basis: z or x")
	cmd.Flags().BoolVar(&opts.Resets, "resets", opts.Resets, "reset ancillas after each measurement")
}

// mergeCodeConfig overwrites code parameters from the [code] section for
// every flag the user did not set explicitly. Flags are registered before
// the --config flag is parsed, so file values have to be merged after
// flag parsing rather than used as flag defaults.
func mergeCodeConfig(cmd *cobra.Command, opts *pipeline.Options, cfg CodeConfig) {
	flags := cmd.Flags()
	if !flags.Changed("distance") {
		opts.Distance = cfg.Distance
	}
	if !flags.Changed("rounds") {
		opts.Rounds = cfg.Rounds
	}
	if !flags.Changed("basis") {
		opts.Basis = cfg.Basis
	}
	if !flags.Changed("resets") {
		opts.Resets = cfg.Resets
	}
	if f := flags.Lookup("logical"); f != nil && !f.Changed {
		opts.Logical = cfg.Logical
	}
	if f := flags.Lookup("shots"); f != nil && !f.Changed {
		opts.Shots = cfg.Shots
	}
	if f := flags.Lookup("seed"); f != nil && !f.Changed {
		opts.Seed = cfg.Seed
	}
}

package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/dao/inmem"
	"github.com/dekarrin/chomsky/server/dao/sqlite"
	"golang.org/x/crypto/bcrypt"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32

	DefaultListenAddress = "localhost:8080"
	DefaultAdminUsername = "admin"
)

// Environment variables read by Config.ApplyEnv.
const (
	EnvListenAddress = "CNFC_LISTEN_ADDRESS"
	EnvTokenSecret   = "CNFC_TOKEN_SECRET"
	EnvDatabase      = "CNFC_DATABASE"
	EnvAdminUsername = "CNFC_ADMIN_USERNAME"
	EnvAdminPassword = "CNFC_ADMIN_PASSWORD"
	EnvUnauthDelay   = "CNFC_UNAUTH_DELAY_MS"
)

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	sLower := strings.ToLower(s)

	switch sLower {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	// Type is the type of database the config refers to. It also determines
	// which of its other fields are valid.
	Type DBType

	// DataDir is the path on disk to a directory to use to store data in. This
	// is only applicable for certain DB types: SQLite.
	DataDir string
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the store for use.
func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		err := os.MkdirAll(db.DataDir, 0770)
		if err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}

		store, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}

		return store, nil
	case DatabaseNone:
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Validate returns an error if the Database does not have the correct fields
// set. Its type will be checked to ensure that it is a valid type to use and
// any fields necessary for connecting to that type of DB are also checked.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		// nothing else to check
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a database connection string of the form
// "engine:params" (or just "engine" if no other params are required) into a
// valid Database config object. For example, "sqlite:/data" would give the DB
// type of DatabaseSQLite that stores persistence in files located in the given
// dir, and "inmem" would give the DB type of DatabaseInMemory.
func ParseDBConnString(s string) (Database, error) {
	var paramStr string
	dbParts := strings.SplitN(s, ":", 2)

	if len(dbParts) == 2 {
		paramStr = strings.TrimSpace(dbParts[1])
	}

	// parse the first section into a type, from there we can determine if
	// further params are required.
	dbEng, err := ParseDBType(strings.TrimSpace(dbParts[0]))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	switch dbEng {
	case DatabaseInMemory:
		// there cannot be any other options
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}

		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		// there must be options
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}

		// the only option is the DB path, as long as the param str isn't
		// literally blank, it can be used.
		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	case DatabaseNone:
		// not allowed
		return Database{}, fmt.Errorf("cannot specify DB engine 'none' (perhaps you wanted 'inmem'?)")
	default:
		// unknown
		return Database{}, fmt.Errorf("unknown DB engine: %q", dbEng.String())
	}
}

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a cnfserver.
type Config struct {

	// ListenAddress is the address the server listens on, in the form
	// "host:port". If not provided, DefaultListenAddress is used.
	ListenAddress string

	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// Database is the configuration to use for connecting to the database. If
	// not provided, it will be set to a configuration for using an in-memory
	// persistence layer.
	DB Database

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. If not set it will default to 1 second
	// (1000ms). Set this to any negative number to disable the delay.
	UnauthDelayMillis int

	// AdminUsername is the name of the admin user created at startup if it
	// does not already exist. Defaults to DefaultAdminUsername.
	AdminUsername string

	// AdminPassword is the password given to the admin user when it is
	// created. If empty, no admin user is created.
	AdminPassword string

	// PasswordCost is the bcrypt cost used when hashing passwords. If not set
	// it defaults to bcrypt.DefaultCost.
	PasswordCost int
}

// fileConfig is the layout of a TOML server config file.
type fileConfig struct {
	Listen        string `toml:"listen"`
	TokenSecret   string `toml:"token_secret"`
	Database      string `toml:"database"`
	UnauthDelayMS int    `toml:"unauth_delay_ms"`
	PasswordCost  int    `toml:"password_cost"`
	Admin         struct {
		Username string `toml:"username"`
		Password string `toml:"password"`
	} `toml:"admin"`
}

// LoadConfigFile reads a Config from the TOML file at path. Keys not present
// in the file are left unset.
func LoadConfigFile(path string) (Config, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("decode %s: unknown key %q", path, undec[0].String())
	}

	cfg := Config{
		ListenAddress:     fc.Listen,
		UnauthDelayMillis: fc.UnauthDelayMS,
		AdminUsername:     fc.Admin.Username,
		AdminPassword:     fc.Admin.Password,
		PasswordCost:      fc.PasswordCost,
	}
	if fc.TokenSecret != "" {
		cfg.TokenSecret = []byte(fc.TokenSecret)
	}
	if fc.Database != "" {
		cfg.DB, err = ParseDBConnString(fc.Database)
		if err != nil {
			return Config{}, fmt.Errorf("database: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv returns a new Config identical to cfg but with any value given in
// the environment variables named by the Env* constants overriding it.
func (cfg Config) ApplyEnv() (Config, error) {
	newCFG := cfg

	if v := os.Getenv(EnvListenAddress); v != "" {
		newCFG.ListenAddress = v
	}
	if v := os.Getenv(EnvTokenSecret); v != "" {
		newCFG.TokenSecret = []byte(v)
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		db, err := ParseDBConnString(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDatabase, err)
		}
		newCFG.DB = db
	}
	if v := os.Getenv(EnvAdminUsername); v != "" {
		newCFG.AdminUsername = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		newCFG.AdminPassword = v
	}
	if v := os.Getenv(EnvUnauthDelay); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: not an integer: %q", EnvUnauthDelay, v)
		}
		newCFG.UnauthDelayMillis = ms
	}

	return newCFG, nil
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMS is set to a number less than 0, this will
// return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.ListenAddress == "" {
		newCFG.ListenAddress = DefaultListenAddress
	}
	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}
	if newCFG.AdminUsername == "" {
		newCFG.AdminUsername = DefaultAdminUsername
	}
	if newCFG.PasswordCost == 0 {
		newCFG.PasswordCost = bcrypt.DefaultCost
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("listen address: must not be empty")
	}
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.PasswordCost < bcrypt.MinCost || cfg.PasswordCost > bcrypt.MaxCost {
		return fmt.Errorf("password cost: must be between %d and %d, but is %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.PasswordCost)
	}

	// all possible values for UnauthDelayMS are valid, so no need to check it

	return nil
}

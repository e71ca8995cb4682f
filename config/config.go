package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatText is a format for plain text without colors
	LogFormatText = "text"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	// Object store backends.
	ObjectStoreFile = "file"
	ObjectStoreS3   = "s3"
	ObjectStoreGCS  = "gcs"
	ObjectStoreHTTP = "http"
)

// NOTE: Most of the structs & relevant comments + the
// default configuration options were used to manually
// generate the config.toml. Please reflect any changes
// made here in the defaultConfigTemplate constant in
// config/toml.go
// NOTE: libs/cli must know to look in the config dir!
var (
	DefaultIotaTrustDir = ".iota-trust"
	defaultConfigDir    = "config"
	defaultDataDir      = "data"

	defaultConfigFileName = "config.toml"
	defaultConfigFilePath = filepath.Join(defaultConfigDir, defaultConfigFileName)

	defaultCheckpointsListName = "checkpoints.yaml"
	defaultGenesisBlobName     = "genesis.blob"
)

// Config defines the top level configuration of iota-trust.
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	// Options for services
	LightClient     *LightClientConfig     `mapstructure:"light_client"`
	KVServer        *KVServerConfig        `mapstructure:"kv_server"`
	KVClient        *KVClientConfig        `mapstructure:"kv_client"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation"`
}

// DefaultConfig returns a default configuration for the mainnet.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		LightClient:     DefaultLightClientConfig(),
		KVServer:        DefaultKVServerConfig(),
		KVClient:        DefaultKVClientConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing. Nothing
// in it points at a remote service.
func TestConfig() *Config {
	return &Config{
		BaseConfig:      TestBaseConfig(),
		LightClient:     TestLightClientConfig(),
		KVServer:        TestKVServerConfig(),
		KVClient:        TestKVClientConfig(),
		Instrumentation: TestInstrumentationConfig(),
	}
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	cfg.LightClient.RootDir = root
	cfg.KVServer.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails. All failing sections are reported.
func (cfg *Config) ValidateBasic() error {
	var result *multierror.Error
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := cfg.LightClient.ValidateBasic(); err != nil {
		result = multierror.Append(result, fmt.Errorf("error in [light_client] section: %w", err))
	}
	if err := cfg.KVServer.ValidateBasic(); err != nil {
		result = multierror.Append(result, fmt.Errorf("error in [kv_server] section: %w", err))
	}
	if err := cfg.KVClient.ValidateBasic(); err != nil {
		result = multierror.Append(result, fmt.Errorf("error in [kv_client] section: %w", err))
	}
	if err := cfg.Instrumentation.ValidateBasic(); err != nil {
		result = multierror.Append(result, fmt.Errorf("error in [instrumentation] section: %w", err))
	}
	return result.ErrorOrNil()
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration.
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Network the light client presets are taken from: mainnet | testnet | devnet
	Network string `mapstructure:"network"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text), 'text' or 'json'
	LogFormat string `mapstructure:"log_format"`
}

// DefaultBaseConfig returns a default base configuration.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Network:   "mainnet",
		LogLevel:  DefaultLogLevel,
		LogFormat: LogFormatPlain,
	}
}

// TestBaseConfig returns a base configuration for testing.
func TestBaseConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.Network = ""
	cfg.LogLevel = "debug"
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	switch cfg.LogFormat {
	case LogFormatPlain, LogFormatText, LogFormatJSON:
	default:
		return errors.New("unknown log_format (must be 'plain', 'text' or 'json')")
	}
	switch cfg.Network {
	case "", "mainnet", "testnet", "devnet":
	default:
		return fmt.Errorf("unknown network %q (must be 'mainnet', 'testnet' or 'devnet')", cfg.Network)
	}
	return nil
}

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

//-----------------------------------------------------------------------------
// LightClientConfig

// LightClientConfig defines the configuration of the checkpoint chain
// verifier. It can be loaded on its own with LoadLightClientConfig.
type LightClientConfig struct {
	RootDir string `mapstructure:"home" toml:"-"`

	// JSON-RPC endpoint of a full node
	RPCURL string `mapstructure:"rpc_url" toml:"rpc_url"`

	// GraphQL endpoint of a full node, used to list end-of-epoch checkpoints
	GraphQLURL string `mapstructure:"graphql_url" toml:"graphql_url"`

	// Directory holding checkpoints.yaml, genesis.blob and the synced
	// checkpoint files
	CheckpointsDir string `mapstructure:"checkpoints_dir" toml:"checkpoints_dir"`

	// Where to download genesis.blob from when it is missing. file:// URLs
	// are copied.
	GenesisBlobDownloadURL string `mapstructure:"genesis_blob_download_url" toml:"genesis_blob_download_url"`

	// Sync and verify the checkpoint chain before every check command
	SyncBeforeCheck bool `mapstructure:"sync_before_check" toml:"sync_before_check"`

	// Store of full checkpoints. When set it is also used to check
	// transactions and objects.
	CheckpointStore *ObjectStoreConfig `mapstructure:"checkpoint_store_config" toml:"checkpoint_store_config"`

	// Archive store. It only holds summaries, so it can only be used to sync.
	ArchiveStore *ObjectStoreConfig `mapstructure:"archive_store_config" toml:"archive_store_config"`
}

// DefaultLightClientConfig returns the mainnet light client configuration.
func DefaultLightClientConfig() *LightClientConfig {
	cfg, err := LightClientConfigForNetwork("mainnet")
	if err != nil {
		panic(err)
	}
	return cfg
}

// TestLightClientConfig returns a light client configuration for a local
// network.
func TestLightClientConfig() *LightClientConfig {
	return &LightClientConfig{
		RPCURL:         "http://127.0.0.1:9000",
		GraphQLURL:     "http://127.0.0.1:9125",
		CheckpointsDir: "checkpoints",
	}
}

// LightClientConfigForNetwork returns the preset for a public network.
func LightClientConfigForNetwork(network string) (*LightClientConfig, error) {
	switch network {
	case "mainnet", "testnet", "devnet":
	default:
		return nil, fmt.Errorf("no preset for network %q", network)
	}
	return &LightClientConfig{
		RPCURL:                 fmt.Sprintf("https://api.%s.iota.cafe", network),
		GraphQLURL:             fmt.Sprintf("https://graphql.%s.iota.cafe", network),
		CheckpointsDir:         "checkpoints_" + network,
		GenesisBlobDownloadURL: fmt.Sprintf("https://dbfiles.%s.iota.cafe/genesis.blob", network),
		CheckpointStore: &ObjectStoreConfig{
			ObjectStore:     ObjectStoreHTTP,
			URL:             fmt.Sprintf("https://checkpoints.%s.iota.cafe", network),
			ConnectionLimit: 20,
		},
		ArchiveStore: &ObjectStoreConfig{
			ObjectStore:     ObjectStoreHTTP,
			URL:             fmt.Sprintf("https://archive.%s.iota.cafe", network),
			ConnectionLimit: 20,
		},
	}, nil
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *LightClientConfig) ValidateBasic() error {
	if cfg.GraphQLURL == "" && cfg.ArchiveStore == nil {
		return errors.New("either graphql_url or archive_store_config must be provided")
	}
	if cfg.CheckpointsDir == "" {
		return errors.New("checkpoints_dir can't be empty")
	}
	if err := validateURL("rpc_url", cfg.RPCURL, false); err != nil {
		return err
	}
	if err := validateURL("graphql_url", cfg.GraphQLURL, true); err != nil {
		return err
	}
	if err := validateURL("genesis_blob_download_url", cfg.GenesisBlobDownloadURL, true); err != nil {
		return err
	}
	if cfg.CheckpointStore != nil {
		if err := cfg.CheckpointStore.ValidateBasic(); err != nil {
			return fmt.Errorf("checkpoint_store_config: %w", err)
		}
	}
	if cfg.ArchiveStore != nil {
		if err := cfg.ArchiveStore.ValidateBasic(); err != nil {
			return fmt.Errorf("archive_store_config: %w", err)
		}
	}
	return nil
}

// CheckpointsDirPath returns the full path to the checkpoints directory.
func (cfg *LightClientConfig) CheckpointsDirPath() string {
	return rootify(cfg.CheckpointsDir, cfg.RootDir)
}

// CheckpointsListFile returns the full path to checkpoints.yaml.
func (cfg *LightClientConfig) CheckpointsListFile() string {
	return filepath.Join(cfg.CheckpointsDirPath(), defaultCheckpointsListName)
}

// GenesisBlobFile returns the full path to genesis.blob.
func (cfg *LightClientConfig) GenesisBlobFile() string {
	return filepath.Join(cfg.CheckpointsDirPath(), defaultGenesisBlobName)
}

// CheckpointSummaryFile returns the full path of the summary of checkpoint
// seq.
func (cfg *LightClientConfig) CheckpointSummaryFile(seq uint64) string {
	return filepath.Join(cfg.CheckpointsDirPath(), strconv.FormatUint(seq, 10)+".sum")
}

// FullCheckpointFile returns the full path of the full checkpoint seq,
// optionally below the sub directory custom.
func (cfg *LightClientConfig) FullCheckpointFile(seq uint64, custom string) string {
	return filepath.Join(cfg.CheckpointsDirPath(), custom, strconv.FormatUint(seq, 10)+".chk")
}

//-----------------------------------------------------------------------------
// ObjectStoreConfig

// ObjectStoreConfig selects and configures a remote or local object store.
type ObjectStoreConfig struct {
	// Backend: file | s3 | gcs | http
	ObjectStore string `mapstructure:"object_store" toml:"object_store"`

	// Root directory of the file backend
	Directory string `mapstructure:"directory" toml:"directory"`

	// Bucket of the s3 and gcs backends
	Bucket string `mapstructure:"bucket" toml:"bucket"`

	// Custom endpoint and region of the s3 backend
	AWSEndpoint string `mapstructure:"aws_endpoint" toml:"aws_endpoint"`
	AWSRegion   string `mapstructure:"aws_region" toml:"aws_region"`

	// Use <bucket>.<endpoint> instead of <endpoint>/<bucket>
	AWSVirtualHostedStyleRequest bool `mapstructure:"aws_virtual_hosted_style_request" toml:"aws_virtual_hosted_style_request"`

	// Send s3 and gcs requests without credentials
	NoSignRequest bool `mapstructure:"no_sign_request" toml:"no_sign_request"`

	// Service account key file of the gcs backend
	GoogleServiceAccount string `mapstructure:"google_service_account" toml:"google_service_account"`

	// Base URL of the http backend
	URL string `mapstructure:"url" toml:"url"`

	// Maximum number of concurrent requests. 0 means the default (20).
	ConnectionLimit int `mapstructure:"object_store_connection_limit" toml:"object_store_connection_limit"`
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *ObjectStoreConfig) ValidateBasic() error {
	if cfg.ConnectionLimit < 0 {
		return errors.New("object_store_connection_limit can't be negative")
	}
	switch cfg.ObjectStore {
	case ObjectStoreFile:
		if cfg.Directory == "" {
			return errors.New("directory is required by the file object store")
		}
	case ObjectStoreS3:
		if cfg.Bucket == "" {
			return errors.New("bucket is required by the s3 object store")
		}
		return validateURL("aws_endpoint", cfg.AWSEndpoint, true)
	case ObjectStoreGCS:
		if cfg.Bucket == "" {
			return errors.New("bucket is required by the gcs object store")
		}
	case ObjectStoreHTTP:
		return validateURL("url", cfg.URL, false)
	default:
		return fmt.Errorf("unknown object_store %q (must be one of file, s3, gcs, http)", cfg.ObjectStore)
	}
	return nil
}

//-----------------------------------------------------------------------------
// KVServerConfig

// KVServerConfig defines the REST key/value server.
type KVServerConfig struct {
	RootDir string `mapstructure:"home"`

	// TCP or UNIX socket address for the server to listen on
	ListenAddress string `mapstructure:"laddr"`

	// Database backend: goleveldb | cleveldb | boltdb | rocksdb | badgerdb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	// A list of origins a cross-domain request can be executed from.
	// If the special '*' value is present in the list, all origins will be allowed.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// Maximum number of simultaneous connections. 0 - unlimited.
	MaxOpenConnections int `mapstructure:"max_open_connections"`

	// Maximum number of concurrent HTTP/2 streams per connection
	MaxConcurrentStreams uint32 `mapstructure:"max_concurrent_streams"`

	// Timeouts of a request and its response
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// Maximum size of request headers
	MaxHeaderBytes int `mapstructure:"max_header_bytes"`
}

// DefaultKVServerConfig returns a default configuration for the KV server.
func DefaultKVServerConfig() *KVServerConfig {
	return &KVServerConfig{
		ListenAddress:        "tcp://127.0.0.1:9190",
		DBBackend:            "goleveldb",
		DBPath:               defaultDataDir,
		CORSAllowedOrigins:   []string{},
		MaxOpenConnections:   900,
		MaxConcurrentStreams: 1000,
		ReadTimeout:          10 * time.Second,
		WriteTimeout:         10 * time.Second,
		MaxHeaderBytes:       1 << 20,
	}
}

// TestKVServerConfig returns a KV server configuration for testing.
func TestKVServerConfig() *KVServerConfig {
	cfg := DefaultKVServerConfig()
	cfg.ListenAddress = "tcp://127.0.0.1:0"
	cfg.DBBackend = "memdb"
	return cfg
}

// DBDir returns the full path to the database directory
func (cfg *KVServerConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *KVServerConfig) ValidateBasic() error {
	if cfg.ListenAddress == "" {
		return errors.New("laddr can't be empty")
	}
	if cfg.MaxOpenConnections < 0 {
		return errors.New("max_open_connections can't be negative")
	}
	if cfg.ReadTimeout < 0 {
		return errors.New("read_timeout can't be negative")
	}
	if cfg.WriteTimeout < 0 {
		return errors.New("write_timeout can't be negative")
	}
	if cfg.MaxHeaderBytes < 0 {
		return errors.New("max_header_bytes can't be negative")
	}
	return nil
}

//-----------------------------------------------------------------------------
// KVClientConfig

// KVClientConfig defines the key/value services to read from.
type KVClientConfig struct {
	// Base URL of the primary REST key/value service
	URL string `mapstructure:"url"`

	// Base URL of a service to ask for the keys the primary does not have
	FallbackURL string `mapstructure:"fallback_url"`

	// Timeout of a single request
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultKVClientConfig returns a default configuration for the KV client.
func DefaultKVClientConfig() *KVClientConfig {
	return &KVClientConfig{
		URL:     "http://127.0.0.1:9190",
		Timeout: 10 * time.Second,
	}
}

// TestKVClientConfig returns a KV client configuration for testing.
func TestKVClientConfig() *KVClientConfig {
	cfg := DefaultKVClientConfig()
	cfg.Timeout = time.Second
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *KVClientConfig) ValidateBasic() error {
	if err := validateURL("url", cfg.URL, false); err != nil {
		return err
	}
	if err := validateURL("fallback_url", cfg.FallbackURL, true); err != nil {
		return err
	}
	if cfg.Timeout < 0 {
		return errors.New("timeout can't be negative")
	}
	return nil
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on the KV
	// server.
	Prometheus bool `mapstructure:"prometheus"`

	// Instrumentation namespace.
	Namespace string `mapstructure:"namespace"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus: false,
		Namespace:  "iota_trust",
	}
}

// TestInstrumentationConfig returns a default configuration for metrics
// reporting.
func TestInstrumentationConfig() *InstrumentationConfig {
	return DefaultInstrumentationConfig()
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *InstrumentationConfig) ValidateBasic() error {
	if cfg.Prometheus && cfg.Namespace == "" {
		return errors.New("namespace can't be empty when prometheus is enabled")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func validateURL(name, raw string, optional bool) error {
	if raw == "" {
		if optional {
			return nil
		}
		return fmt.Errorf("%s can't be empty", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("invalid %s %q: scheme must be http, https or file", name, raw)
	}
	return nil
}

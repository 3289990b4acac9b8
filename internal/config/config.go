package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"climbcheck/internal/store"
)

// Config represents the application configuration
type Config struct {
	Rider   RiderConfig   `json:"rider" mapstructure:"rider"`
	Physics PhysicsConfig `json:"physics" mapstructure:"physics"`
	Display DisplayConfig `json:"display" mapstructure:"display"`
	Data    DataConfig    `json:"data" mapstructure:"data"`
	Log     LogConfig     `json:"log" mapstructure:"log"`
}

// RiderConfig holds the rider profile used until one is saved from the app
type RiderConfig struct {
	FTPWatts             float64 `json:"ftp_watts" mapstructure:"ftp_watts"`
	RiderWeightKg        float64 `json:"rider_weight_kg" mapstructure:"rider_weight_kg"`
	BikeWeightKg         float64 `json:"bike_weight_kg" mapstructure:"bike_weight_kg"`
	CargoWeightKg        float64 `json:"cargo_weight_kg" mapstructure:"cargo_weight_kg"`
	FrontChainringTeeth  float64 `json:"front_chainring_teeth" mapstructure:"front_chainring_teeth"`
	RearSprocketTeeth    float64 `json:"rear_sprocket_teeth" mapstructure:"rear_sprocket_teeth"`
	WheelCircumferenceMm float64 `json:"wheel_circumference_mm" mapstructure:"wheel_circumference_mm"`
	MinCadenceRpm        float64 `json:"min_cadence_rpm" mapstructure:"min_cadence_rpm"`
}

// Profile converts the configured rider into a store profile
func (r RiderConfig) Profile() store.RiderProfile {
	return store.RiderProfile{
		FTPWatts:             r.FTPWatts,
		RiderWeightKg:        r.RiderWeightKg,
		BikeWeightKg:         r.BikeWeightKg,
		CargoWeightKg:        r.CargoWeightKg,
		FrontChainringTeeth:  r.FrontChainringTeeth,
		RearSprocketTeeth:    r.RearSprocketTeeth,
		WheelCircumferenceMm: r.WheelCircumferenceMm,
		MinCadenceRpm:        r.MinCadenceRpm,
	}
}

// PhysicsConfig optionally overrides the power model constants. Zero keeps the default.
type PhysicsConfig struct {
	Crr        float64 `json:"crr" mapstructure:"crr"`
	CdA        float64 `json:"cda" mapstructure:"cda"`
	AirDensity float64 `json:"air_density" mapstructure:"air_density"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit" mapstructure:"distance_unit"`
}

// DataConfig holds file locations
type DataConfig struct {
	CataloguePath string `json:"catalogue_path" mapstructure:"catalogue_path"` // CSV imported on first run
	PathsDir      string `json:"paths_dir" mapstructure:"paths_dir"`           // <group>.csv elevation traces
	DatabasePath  string `json:"database_path" mapstructure:"database_path"`
}

// LogConfig controls the rotating log file
type LogConfig struct {
	File       string `json:"file" mapstructure:"file"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// EnvPrefix is the prefix for environment overrides, e.g. CLIMBCHECK_RIDER_FTP_WATTS
const EnvPrefix = "CLIMBCHECK"

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Rider: RiderConfig{
			FTPWatts:             200,
			RiderWeightKg:        70,
			BikeWeightKg:         9,
			CargoWeightKg:        0,
			FrontChainringTeeth:  34,
			RearSprocketTeeth:    28,
			WheelCircumferenceMm: 2096,
			MinCadenceRpm:        60,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
		},
		Log: LogConfig{
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the configuration from ~/.climbcheck/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from path. Missing values take defaults and
// CLIMBCHECK_* environment variables override file values.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNoConfig
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

// setDefaults registers every key so environment overrides apply even when the
// file omits a section
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("rider.ftp_watts", d.Rider.FTPWatts)
	v.SetDefault("rider.rider_weight_kg", d.Rider.RiderWeightKg)
	v.SetDefault("rider.bike_weight_kg", d.Rider.BikeWeightKg)
	v.SetDefault("rider.cargo_weight_kg", d.Rider.CargoWeightKg)
	v.SetDefault("rider.front_chainring_teeth", d.Rider.FrontChainringTeeth)
	v.SetDefault("rider.rear_sprocket_teeth", d.Rider.RearSprocketTeeth)
	v.SetDefault("rider.wheel_circumference_mm", d.Rider.WheelCircumferenceMm)
	v.SetDefault("rider.min_cadence_rpm", d.Rider.MinCadenceRpm)
	v.SetDefault("physics.crr", d.Physics.Crr)
	v.SetDefault("physics.cda", d.Physics.CdA)
	v.SetDefault("physics.air_density", d.Physics.AirDensity)
	v.SetDefault("display.distance_unit", d.Display.DistanceUnit)
	v.SetDefault("data.catalogue_path", d.Data.CataloguePath)
	v.SetDefault("data.paths_dir", d.Data.PathsDir)
	v.SetDefault("data.database_path", d.Data.DatabasePath)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// resolvePaths fills empty data/log paths with locations inside dir and makes
// relative ones relative to dir
func (c *Config) resolvePaths(dir string) {
	resolve := func(p *string, fallback string) {
		if *p == "" {
			*p = fallback
		}
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	resolve(&c.Data.DatabasePath, "data.db")
	resolve(&c.Data.PathsDir, "paths")
	resolve(&c.Data.CataloguePath, "")
	resolve(&c.Log.File, "climbcheck.log")
}

// Save writes the configuration to ~/.climbcheck/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path
func SaveTo(path string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Data.CataloguePath = "climbs.csv"
	return SaveTo(path, &example)
}

// Validate checks if the config values are usable
func (c *Config) Validate() error {
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}

	if c.Rider.FTPWatts < 0 {
		return fmt.Errorf("rider.ftp_watts must not be negative, got %v", c.Rider.FTPWatts)
	}
	if c.Rider.RiderWeightKg < 0 || c.Rider.BikeWeightKg < 0 || c.Rider.CargoWeightKg < 0 {
		return errors.New("rider weights must not be negative")
	}

	if c.Physics.Crr < 0 || c.Physics.CdA < 0 || c.Physics.AirDensity < 0 {
		return errors.New("physics overrides must not be negative")
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".climbcheck"), nil
}

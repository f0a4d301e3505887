package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
)

//go:embed config.schema.json
var configSchema string

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("simulation: invalid config")

type Config struct {
	// Window size in pixels
	WindowWidth  int `json:"windowWidth" toml:"windowWidth"`
	WindowHeight int `json:"windowHeight" toml:"windowHeight"`

	// Scene
	Arena  flocking.Extent `json:"arena" toml:"arena"`
	Border float64         `json:"border" toml:"border"` // width of the band around the playable region

	// Population
	Agents int    `json:"agents" toml:"agents"`
	Seed   uint64 `json:"seed" toml:"seed"` // 0 picks a time based seed

	// Performance
	Workers      int    `json:"workers" toml:"workers"`
	Neighborhood string `json:"neighborhood" toml:"neighborhood"`
	UseActors    bool   `json:"useActors" toml:"useActors"` // step the flock through the world actor

	// Longest frame the host feeds to Update, in seconds. Longer pauses are clipped.
	MaxFrameDt float64 `json:"maxFrameDt" toml:"maxFrameDt"`

	AgentSize float64         `json:"agentSize" toml:"agentSize"`
	Tuning    flocking.Tuning `json:"tuning" toml:"tuning"`
}

func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  800,
		WindowHeight: 800,
		Arena:        flocking.Extent{Width: 1000, Height: 1000},
		Border:       50,
		Agents:       100,
		Workers:      1,
		Neighborhood: flocking.StrategyBruteForce,
		MaxFrameDt:   0.1,
		AgentSize:    flocking.DefaultStyle().Size,
		Tuning:       flocking.DefaultTuning(),
	}
}

// Validate checks what the schema cannot express.
func (c *Config) Validate() error {
	if !c.Arena.Valid() {
		return fmt.Errorf("%w: arena must be positive, got %vx%v", ErrInvalidConfig, c.Arena.Width, c.Arena.Height)
	}
	if c.Border < 0 || 2*c.Border >= min(c.Arena.Width, c.Arena.Height) {
		return fmt.Errorf("%w: border %v leaves no playable region in a %vx%v arena",
			ErrInvalidConfig, c.Border, c.Arena.Width, c.Arena.Height)
	}
	if c.Agents <= 0 {
		return fmt.Errorf("%w: agents must be positive, got %d", ErrInvalidConfig, c.Agents)
	}
	if _, err := flocking.NewNeighborhood(c.Neighborhood); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Options turns the config into flock construction options.
func (c *Config) Options() ([]flocking.Option, error) {
	n, err := flocking.NewNeighborhood(c.Neighborhood)
	if err != nil {
		return nil, err
	}
	style := flocking.DefaultStyle()
	if c.AgentSize > 0 {
		style.Size = c.AgentSize
	}
	opts := []flocking.Option{
		flocking.WithTuning(c.Tuning),
		flocking.WithNeighborhood(n),
		flocking.WithWorkers(c.Workers),
		flocking.WithSpawnInset(c.Border),
		flocking.WithStyle(style),
	}
	if c.Seed != 0 {
		opts = append(opts, flocking.WithSeed(c.Seed))
	}
	return opts, nil
}

// LoadConfig reads a JSON or TOML file (picked by extension), validates it against the embedded
// schema and applies it over DefaultConfig. Fields absent from the file keep their default.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	isTOML := strings.EqualFold(filepath.Ext(configFile), ".toml")

	// 3. Validate
	doc, err := decodeDocument(b, isTOML)
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct
	cfg := DefaultConfig()
	if isTOML {
		_, err = toml.Decode(string(b), cfg)
	} else {
		err = json.Unmarshal(b, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeDocument returns the generic JSON value the schema validator expects. TOML documents
// go through a JSON round trip so integers and tables get the same shape as in a JSON file.
func decodeDocument(b []byte, isTOML bool) (any, error) {
	if isTOML {
		var m map[string]any
		if _, err := toml.Decode(string(b), &m); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
		var err error
		if b, err = json.Marshal(m); err != nil {
			return nil, fmt.Errorf("failed to convert config toml: %w", err)
		}
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	return v, nil
}

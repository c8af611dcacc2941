package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/ptsim/truthcore/internal/ir"
)

//go:embed schema.cue
var schemaSrc []byte

// ArtifactStorageMode controls whether derived-artifact payloads are
// stored inline alongside their manifest or in a separate
// content-addressed table.
type ArtifactStorageMode string

const (
	ArtifactStorageEmbedded ArtifactStorageMode = "Embedded"
	ArtifactStorageExternal ArtifactStorageMode = "External"
)

// Config is the validated configuration surface (spec §6).
type Config struct {
	TickPolicy            ir.TickPolicy
	ArtifactStorageMode   ArtifactStorageMode
	VerifyArtifactsOnRead bool
	ScenarioSeed          uint64
	SeedAlgorithm         string
}

// rawConfig mirrors the on-disk YAML shape before type conversion.
type rawConfig struct {
	TickPolicy            string `yaml:"tick_policy"`
	ArtifactStorageMode   string `yaml:"artifact_storage_mode"`
	VerifyArtifactsOnRead bool   `yaml:"verify_artifacts_on_read"`
	ScenarioSeed          uint64 `yaml:"scenario_seed"`
	SeedAlgorithm         string `yaml:"seed_algorithm"`
}

// Load reads path as YAML, validates it against the embedded CUE schema,
// and returns the typed Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse validates and decodes YAML config bytes. filename is used only for
// CUE's error positions.
func Parse(filename string, data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if raw.SeedAlgorithm == "" {
		raw.SeedAlgorithm = "FNV1a-StreamIdentity-v2"
	}

	if err := validateAgainstSchema(filename, data); err != nil {
		return nil, err
	}

	tickPolicy, err := ir.ParseTickPolicy(raw.TickPolicy)
	if err != nil {
		return nil, fmt.Errorf("config: tick_policy: %w", err)
	}

	mode := ArtifactStorageMode(raw.ArtifactStorageMode)
	if mode != ArtifactStorageEmbedded && mode != ArtifactStorageExternal {
		return nil, fmt.Errorf("config: artifact_storage_mode: invalid value %q", raw.ArtifactStorageMode)
	}

	return &Config{
		TickPolicy:            tickPolicy,
		ArtifactStorageMode:   mode,
		VerifyArtifactsOnRead: raw.VerifyArtifactsOnRead,
		ScenarioSeed:          raw.ScenarioSeed,
		SeedAlgorithm:         raw.SeedAlgorithm,
	}, nil
}

// validateAgainstSchema unifies the decoded YAML value with the embedded
// CUE schema and reports the first concrete constraint violation, using
// the CUE SDK directly rather than a CLI subprocess (as in
// internal/cli/loader.go).
func validateAgainstSchema(filename string, yamlData []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSrc)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config: compiling schema: %w", err)
	}

	value, err := cueyaml.Decode(ctx, filename, yamlData)
	if err != nil {
		return fmt.Errorf("config: decoding yaml: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config: schema validation failed: %w", err)
	}
	return nil
}

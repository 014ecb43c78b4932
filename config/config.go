// Package config holds the run configuration of the convergence bench.
//
// Values start from Defaults and are overlaid by a TOML file, so a file only
// names the settings it changes.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("config: invalid")

// PoolerConfig configures the projection pooler
type PoolerConfig struct {

	// number of output columns
	Columns int

	// number of winning columns per activation
	Active int

	// permanence at which a synapse counts as connected
	Connected float64

	// minimum overlap for a column to win
	Threshold int

	// seed of the permanence hash
	Seed uint32
}

// DatasetConfig selects the samples
type DatasetConfig struct {

	// text file of "label pattern" lines, synthetic samples are used when empty
	File string

	// number of synthetic samples
	Synthetic int

	// synthetic pattern length
	Width int

	// fraction of active bits in a synthetic pattern
	Density float64

	// seed of the synthetic patterns
	Seed uint32

	// number of times the sample sequence is presented per cycle
	Repeat int
}

// Config is one train and test run
type Config struct {

	// training cycle budget
	MaxCycles int

	// accuracy percentage the accuracy policy trains towards
	MinAccuracy float64

	// termination policy: accuracy or stability
	Policy string

	// stability comparison: exact or ppm
	Stability string

	// classifier: exact or knn
	Classifier string

	// let the pooler and classifier learn during the test pass
	Learn bool

	// test on the samples in reverse order
	Reverse bool

	// print every mismatch
	Verbose bool

	// print permanence statistics per cycle
	Stats bool

	Pooler PoolerConfig

	Dataset DatasetConfig
}

// Defaults returns the configuration used when no file is given
func Defaults() Config {
	return Config{
		MaxCycles:   5,
		MinAccuracy: 100,
		Policy:      "accuracy",
		Stability:   "exact",
		Classifier:  "exact",
		Pooler: PoolerConfig{
			Columns:   1024,
			Active:    40,
			Connected: 0.3,
			Threshold: 1,
			Seed:      1956,
		},
		Dataset: DatasetConfig{
			Synthetic: 26,
			Width:     1024,
			Density:   0.1,
			Seed:      1,
			Repeat:    1,
		},
	}
}

// Decode overlays the TOML document data on the defaults
func Decode(data string) (Config, error) {
	cfg := Defaults()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "config: decode")
	}
	return cfg, undecoded(md)
}

// Load overlays the TOML file name on the defaults
func Load(name string) (Config, error) {
	cfg := Defaults()
	md, err := toml.DecodeFile(name, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: load %s", name)
	}
	return cfg, undecoded(md)
}

func undecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	var names = make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errors.Wrapf(ErrInvalid, "unknown keys %s", strings.Join(names, ", "))
}

// Validate rejects unknown names and non-positive sizes
func (c *Config) Validate() error {
	switch {
	case c.MaxCycles < 1:
		return errors.Wrapf(ErrInvalid, "max cycles %d", c.MaxCycles)
	case c.MinAccuracy < 0 || c.MinAccuracy > 100:
		return errors.Wrapf(ErrInvalid, "min accuracy %v", c.MinAccuracy)
	case c.Policy != "accuracy" && c.Policy != "stability":
		return errors.Wrapf(ErrInvalid, "policy %q", c.Policy)
	case c.Stability != "exact" && c.Stability != "ppm":
		return errors.Wrapf(ErrInvalid, "stability %q", c.Stability)
	case c.Classifier != "exact" && c.Classifier != "knn":
		return errors.Wrapf(ErrInvalid, "classifier %q", c.Classifier)
	case c.Pooler.Columns < 1 || c.Pooler.Active < 1 || c.Pooler.Active > c.Pooler.Columns:
		return errors.Wrapf(ErrInvalid, "pooler %d of %d columns", c.Pooler.Active, c.Pooler.Columns)
	case c.Pooler.Connected <= 0 || c.Pooler.Connected >= 1:
		return errors.Wrapf(ErrInvalid, "pooler connected threshold %v", c.Pooler.Connected)
	case c.Dataset.File == "" && (c.Dataset.Synthetic < 1 || c.Dataset.Width < 1):
		return errors.Wrapf(ErrInvalid, "%d synthetic samples of width %d", c.Dataset.Synthetic, c.Dataset.Width)
	case c.Dataset.Repeat < 1:
		return errors.Wrapf(ErrInvalid, "dataset repeat %d", c.Dataset.Repeat)
	case c.Dataset.File == "" && (c.Dataset.Density <= 0 || c.Dataset.Density > 1):
		return errors.Wrapf(ErrInvalid, "dataset density %v", c.Dataset.Density)
	}
	return nil
}

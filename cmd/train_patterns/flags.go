package main

import "flag"

import "github.com/neurlang/poolbench/config"

// defineOverrides declares a flag for every run setting of config.Config
func defineOverrides(fs *flag.FlagSet) {
	fs.String("dataset", "", "dataset file of label pattern lines")
	fs.Int("maxcycles", 0, "training cycle budget")
	fs.Float64("minaccuracy", 0, "accuracy percentage the accuracy policy trains towards")
	fs.Int("repeat", 0, "present the sample sequence this many times per cycle")
	fs.String("policy", "", "termination policy: accuracy or stability")
	fs.String("stability", "", "stability comparison: exact or ppm")
	fs.String("classifier", "", "classifier: exact or knn")
	fs.Bool("reverse", false, "test on the samples in reverse order")
	fs.Bool("learn", false, "learn during the test pass")
	fs.Bool("verbose", false, "print every mismatch and cycle")
	fs.Bool("stats", false, "print permanence statistics per cycle")
}

// applyOverrides copies the flags set on the command line over cfg, flags left
// unset keep the configured value
func applyOverrides(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		switch v := getter.Get(); f.Name {
		case "dataset":
			cfg.Dataset.File = v.(string)
		case "maxcycles":
			cfg.MaxCycles = v.(int)
		case "minaccuracy":
			cfg.MinAccuracy = v.(float64)
		case "repeat":
			cfg.Dataset.Repeat = v.(int)
		case "policy":
			cfg.Policy = v.(string)
		case "stability":
			cfg.Stability = v.(string)
		case "classifier":
			cfg.Classifier = v.(string)
		case "reverse":
			cfg.Reverse = v.(bool)
		case "learn":
			cfg.Learn = v.(bool)
		case "verbose":
			cfg.Verbose = v.(bool)
		case "stats":
			cfg.Stats = v.(bool)
		}
	})
}

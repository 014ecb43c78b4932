package main

import "flag"
import "fmt"
import "log"
import "os"
import "strings"

import "github.com/neurlang/poolbench/classifier"
import "github.com/neurlang/poolbench/config"
import "github.com/neurlang/poolbench/datasets"
import "github.com/neurlang/poolbench/diagnostics"
import "github.com/neurlang/poolbench/evaluator"
import "github.com/neurlang/poolbench/pooler"
import "github.com/neurlang/poolbench/registry"
import "github.com/neurlang/poolbench/trainer"

func main() {
	configfile := flag.String("config", "", "run configuration .toml file")
	dumpfile := flag.String("dump", "", "write the samples used to this file")
	defineOverrides(flag.CommandLine)
	flag.Bool("pgo", false, "enable pgo")
	flag.Parse()

	defer profile()()

	var cfg = config.Defaults()
	if *configfile != "" {
		var err error
		cfg, err = config.Load(*configfile)
		if err != nil {
			panic(err.Error())
		}
	}
	applyOverrides(&cfg, flag.CommandLine)
	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}

	var train *datasets.Dataset
	if cfg.Dataset.File != "" {
		var err error
		train, err = datasets.ReadTextFile(cfg.Dataset.File)
		if err != nil {
			panic(err.Error())
		}
	} else {
		train = datasets.Synthetic(cfg.Dataset.Synthetic, cfg.Dataset.Width, cfg.Dataset.Density, cfg.Dataset.Seed)
	}
	if *dumpfile != "" {
		f, err := os.Create(*dumpfile)
		if err != nil {
			panic(err.Error())
		}
		if err := train.WriteText(f); err != nil {
			panic(err.Error())
		}
		f.Close()
	}
	if cfg.Dataset.Repeat > 1 {
		train = train.Repeat(cfg.Dataset.Repeat)
	}
	fmt.Println("samples:", train.Len(), "labels:", train.Distinct(), "width:", train.Width(), "threads:", classifier.DefaultThreads())

	p, err := pooler.NewProjection(pooler.ProjectionConfig{
		Inputs:    train.Width(),
		Columns:   cfg.Pooler.Columns,
		Active:    cfg.Pooler.Active,
		Connected: cfg.Pooler.Connected,
		Threshold: cfg.Pooler.Threshold,
		Seed:      cfg.Pooler.Seed,
	})
	if err != nil {
		panic(err.Error())
	}

	// shared by the train and the test pass, the stability policy runs without a classifier
	reg := registry.New()
	var c classifier.Classifier
	var exact *classifier.ExactMatch
	switch {
	case cfg.Policy == "stability":
	case cfg.Classifier == "knn":
		c = classifier.NewKNearestNeighbor()
	default:
		exact = classifier.NewExactMatch(reg)
		c = exact
	}

	var opts []trainer.Option
	opts = append(opts, trainer.WithMaxCycles(cfg.MaxCycles))
	if cfg.Verbose {
		opts = append(opts, trainer.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	}
	if cfg.Stats {
		opts = append(opts, trainer.WithStats(os.Stdout))
	}

	var trainIDs []int
	switch cfg.Policy {
	case "stability":
		mode := trainer.Exact
		if cfg.Stability == "ppm" {
			mode = trainer.PPM
		}
		ids, cycles, err := trainer.TrainStability(p, reg, train, cfg.MaxCycles, mode, opts...)
		if err != nil {
			panic(err.Error())
		}
		trainIDs = ids
		fmt.Println("cycles:", cycles, "codes:", reg.Size(), "of width", reg.Dim())
	default:
		s, err := trainer.New(p, reg, c, trainer.NewAccuracy(cfg.MinAccuracy), opts...).Train(train)
		if err != nil {
			panic(err.Error())
		}
		trainIDs = s.IDs
		fmt.Printf("cycles: %d converged: %v accuracy: %.5f%% codes: %d of width %d session: %s\n",
			s.Cycles, s.Converged, s.Accuracy, reg.Size(), reg.Dim(), s.ID)
		if last, ok := s.Last(); ok {
			fmt.Printf("last cycle: collisions %d distinct %d sparsity %.4f\n", last.Collisions, last.Distinct, last.Sparsity)
		}
		for _, o := range s.Oscillations {
			fmt.Println("cycle", o[1], "repeats the codes of cycle", o[0])
		}
	}

	test := train
	if cfg.Reverse {
		test = train.Reversed()
	}

	var evalopts []evaluator.Option
	if cfg.Verbose {
		evalopts = append(evalopts, evaluator.WithLogger(log.New(os.Stderr, "", log.LstdFlags)), evaluator.WithVerbose(true))
	}
	report, err := evaluator.New(p, reg, c, evalopts...).Test(test, cfg.Learn && c != nil)
	if err != nil {
		panic(err.Error())
	}
	if c != nil {
		report.Print(os.Stdout)
	}

	// codes are compared in training order
	testIDs := report.IDs
	if cfg.Reverse {
		testIDs = reversed(testIDs)
	}
	if diff := evaluator.CompareIDs(trainIDs, testIDs); len(diff) > 0 {
		fmt.Println("SDRs don't match at", len(diff), "samples, first", diff[0])
	}

	// recognize by code, the way the stability policy sees the samples
	matched := evaluator.MatchByID(trainIDs, train.Labels, report.IDs)
	var hits int
	for i, m := range matched {
		if m == test.Labels[i] {
			hits++
		} else if cfg.Verbose {
			fmt.Println(test.Labels[i], "shares its code with", strings.Split(m, ","))
		}
	}
	fmt.Printf("recognized by code: %.5f%%\n", 100*float64(hits)/float64(test.Len()))

	s, err := diagnostics.Report(p)
	if err != nil {
		panic(err.Error())
	}
	connected, permanence, err := diagnostics.Digests(p)
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("connected: %.4f%% mean %.3f unconnected: %.4f%% mean %.3f\n",
		s.PctConnected, s.ConnectedMean, s.PctUnconnected, s.UnconnectedMean)
	fmt.Printf("synapses: %x permanences: %x\n", connected[:8], permanence[:8])
	fmt.Println("registry:", reg.Footprint().HumanReadable())
	if exact != nil {
		fmt.Println("associations:", exact.Len(), "overwrites:", exact.Overwrites(), "filter bytes:", exact.FilterSize())
	}
}

func reversed(ids []int) []int {
	var out = make([]int, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

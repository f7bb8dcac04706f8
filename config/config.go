package config

import (
	"time"

	"github.com/namsral/flag"
)

type Config struct {
	MaxSearchTime time.Duration
	MaxDepth      int
	WeightsPath   string
	RandomDeals   int
	Debug         bool

	// Args holds the positional arguments left after flag parsing,
	// one layout file per game phase.
	Args []string
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("gapbeater", flag.ContinueOnError)
	fs.DurationVar(&c.MaxSearchTime, "max-search-time", 2*time.Second, "wall-clock budget per best-move search")
	fs.IntVar(&c.MaxDepth, "max-depth", 20, "maximum iterative-deepening depth")
	fs.StringVar(&c.WeightsPath, "weights-path", "", "optional YAML file of evaluation feature weights")
	fs.IntVar(&c.RandomDeals, "random-deals", 0, "analyze this many random deals instead of reading layout files")
	fs.BoolVar(&c.Debug, "debug", false, "enable debug logging")
	err := fs.Parse(args)
	c.Args = fs.Args()
	return err
}

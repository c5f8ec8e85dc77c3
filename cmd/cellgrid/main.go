package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arrayforge/cellgrid/pkg/cells"
	"github.com/arrayforge/cellgrid/pkg/config"
	"github.com/arrayforge/cellgrid/pkg/formats/dataset"
	"github.com/arrayforge/cellgrid/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := config.NewToolConfig()
	var configFile string
	var keys []string
	var output string

	root := &cobra.Command{
		Use:   "cellgrid",
		Short: "Cellgrid - columnar cell-data oracle toolkit",
		Long: `Cellgrid applies the reference cell-data model to JSON dataset files:
sorting, deduplication, grouping, distinct counting, projection and
N-dimensional slicing with exact-bit value semantics.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if err := config.Load(configFile, cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if len(keys) == 0 {
				keys = cfg.Defaults.Keys
			}
			if output == "" {
				output = cfg.Defaults.Output
			}
			return logger.Init(logger.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
				Encoding:    cfg.Logging.Encoding,
				OutputPaths: []string{"stderr"},
			})
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML configuration file (optional)")
	root.PersistentFlags().StringSliceVarP(&keys, "keys", "k", nil, "Key fields, in comparison order")
	root.PersistentFlags().StringVarP(&output, "output", "o", "", "Output dataset path; - writes to stdout")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Cellgrid v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "info <dataset>",
		Short: "Describe a dataset: fields, types, row count, shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, dims, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("rows: %d\n", c.Len())
			if len(dims) > 0 {
				fmt.Printf("dimensions: %v\n", dims)
			}
			names := make([]string, 0, len(c.Fields()))
			for name := range c.Fields() {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %s: %s\n", name, c.Fields()[name].Type())
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "sort <dataset>",
		Short: "Sort records by the key fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transform(args[0], output, func(c *cells.Cells) (*cells.Cells, error) {
				return c.Sorted(keys)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "dedup <dataset>",
		Short: "Keep the first record of each distinct key combination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transform(args[0], output, func(c *cells.Cells) (*cells.Cells, error) {
				return c.Dedup(keys)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "project <dataset>",
		Short: "Keep only the key fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transform(args[0], output, func(c *cells.Cells) (*cells.Cells, error) {
				return c.Projection(keys)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "distinct <dataset>",
		Short: "Count distinct key combinations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			count, err := c.CountDistinct(keys)
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "groups <dataset>",
		Short: "Print the boundaries of contiguous key-equal runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			boundaries, err := c.IdentifyGroups(keys)
			if err != nil {
				return err
			}
			if boundaries == nil {
				fmt.Println("no groups: dataset is empty")
				return nil
			}
			for i := 0; i+1 < len(boundaries); i++ {
				fmt.Printf("[%d, %d)\n", boundaries[i], boundaries[i+1])
			}
			return nil
		},
	})

	var rangesSpec string
	sliceCmd := &cobra.Command{
		Use:   "slice <dataset>",
		Short: "Slice a hyper-rectangle out of a shaped dataset",
		Long: `Slice selects a hyper-rectangle from a dataset whose document carries
dimension extents. Ranges are half-open start:end pairs, one per
dimension, e.g. --ranges 0:2,1:3.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, dims, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			ranges, err := parseRanges(rangesSpec)
			if err != nil {
				return err
			}
			structured, err := cells.NewStructured(dims, c)
			if err != nil {
				return err
			}
			sliced, err := structured.Slice(ranges)
			if err != nil {
				return err
			}
			log := logger.Get()
			log.Info("sliced dataset",
				zap.Int("rows_in", c.Len()),
				zap.Int("rows_out", sliced.IntoInner().Len()))
			return dataset.SaveFile(output, sliced.IntoInner(), dims)
		},
	}
	sliceCmd.Flags().StringVar(&rangesSpec, "ranges", "", "Half-open coordinate ranges, one start:end per dimension (required)")
	_ = sliceCmd.MarkFlagRequired("ranges")
	root.AddCommand(sliceCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// transform loads a dataset, applies op, and writes the result.
func transform(in, out string, op func(*cells.Cells) (*cells.Cells, error)) error {
	c, dims, err := dataset.LoadFile(in)
	if err != nil {
		return err
	}
	result, err := op(c)
	if err != nil {
		return err
	}
	log := logger.Get()
	log.Info("transformed dataset",
		zap.String("input", in),
		zap.Int("rows_in", c.Len()),
		zap.Int("rows_out", result.Len()))
	// A transform can change the row count, so the input shape no
	// longer applies to the output document.
	if result.Len() != c.Len() {
		dims = nil
	}
	return dataset.SaveFile(out, result, dims)
}

// parseRanges parses "0:2,1:3" into half-open ranges.
func parseRanges(spec string) ([]cells.Range, error) {
	parts := strings.Split(spec, ",")
	ranges := make([]cells.Range, 0, len(parts))
	for _, part := range parts {
		bounds := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid range %q: want start:end", part)
		}
		start, err := strconv.Atoi(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q: %w", bounds[0], err)
		}
		end, err := strconv.Atoi(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", bounds[1], err)
		}
		ranges = append(ranges, cells.Range{Start: start, End: end})
	}
	return ranges, nil
}

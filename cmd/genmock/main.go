// Command genmock writes synthetic IRIS RAW files for tests and demos. The
// files use the same layout the decoder reads, with deterministic ray
// values.
//
// Usage:
//
//	go run ./cmd/genmock --out testdata/volume.raw --sweeps 5
//	go run ./cmd/genmock --out testdata/scan.raw.gz --sweeps 1 --gzip
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/internal/iris/iristest"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("genmock", pflag.ContinueOnError)
	out := flagSet.String("out", "", "output path for the synthetic IRIS file")
	sweeps := flagSet.Int("sweeps", 3, "number of sweeps (1 gives a scan)")
	rays := flagSet.Int("rays", 360, "rays per sweep")
	bins := flagSet.Int("bins", 250, "range bins per ray")
	types := flagSet.StringSlice("types", []string{"DBT2", "DBZ2", "VEL2"}, "IRIS data types to record")
	missing := flagSet.IntSlice("missing", nil, "ray indices to leave unrecorded")
	compress := flagSet.Bool("gzip", false, "gzip the output")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		flagSet.Usage()
		return fmt.Errorf("missing required flag: --out")
	}
	if *sweeps < 0 || *rays <= 0 || *bins <= 0 {
		return fmt.Errorf("sweeps, rays and bins must be positive")
	}

	dataTypes, err := parseTypes(*types)
	if err != nil {
		return err
	}

	f := iristest.RawFile(iristest.Options{
		Sweeps:      *sweeps,
		Rays:        *rays,
		Bins:        *bins,
		Types:       dataTypes,
		MissingRays: *missing,
	})

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := iristest.Write(*out, f, *compress); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %s: %d sweeps, %d rays, %d bins, types %v", *out, *sweeps, *rays, *bins, *types)
	return nil
}

func parseTypes(names []string) ([]iris.DataType, error) {
	out := make([]iris.DataType, 0, len(names))
	for _, name := range names {
		t, ok := iris.ParseDataType(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown data type %q", name)
		}
		out = append(out, t)
	}
	// Sweeps store types in mask order.
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Command irisinfo summarises IRIS files: format, product, site, the object
// kind a conversion would produce and one line per sweep.
//
// Usage:
//
//	irisinfo [--json] FILE...
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/internal/observability"
	"github.com/couchcryptid/iris2odim/internal/pipeline"
)

type sweepInfo struct {
	Number    int      `json:"number"`
	Elevation float64  `json:"elevation"`
	Rays      int      `json:"rays"`
	Recorded  int      `json:"recorded"`
	DataTypes []string `json:"data_types"`
	StartedAt string   `json:"started_at"`
}

type fileInfo struct {
	Path     string      `json:"path"`
	Format   string      `json:"format"`
	Product  string      `json:"product,omitempty"`
	Task     string      `json:"task,omitempty"`
	Site     string      `json:"site,omitempty"`
	ScanMode string      `json:"scan_mode,omitempty"`
	Kind     string      `json:"kind,omitempty"`
	Error    string      `json:"error,omitempty"`
	Sweeps   []sweepInfo `json:"sweeps,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flagSet := pflag.NewFlagSet("irisinfo", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	asJSON := flagSet.Bool("json", false, "print one JSON document per file")
	if err := flagSet.Parse(args); err != nil {
		return 2
	}
	if flagSet.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: irisinfo [--json] FILE...")
		return 2
	}

	decoder := iris.NewDecoder(observability.NewNopLogger())
	code := 0
	for _, path := range flagSet.Args() {
		info := inspect(context.Background(), decoder, path)
		if info.Error != "" {
			code = 1
		}
		if *asJSON {
			if err := json.NewEncoder(stdout).Encode(info); err != nil {
				fmt.Fprintf(stderr, "irisinfo: %v\n", err)
				return 1
			}
			continue
		}
		printText(stdout, info)
	}
	return code
}

func inspect(ctx context.Context, decoder *iris.Decoder, path string) fileInfo {
	info := fileInfo{Path: path, Format: decoder.Probe(path).String()}
	if info.Format != iris.FormatIRIS.String() {
		return info
	}

	raw, err := decoder.Decode(ctx, path)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer decoder.Release(raw)

	info.Product = raw.Product.Type.String()
	info.Task = raw.Product.TaskName
	info.Site = raw.Ingest.SiteName
	info.ScanMode = raw.Ingest.ScanMode.String()
	info.Kind = pipeline.ResolveKind(raw).String()

	for _, s := range raw.Sweeps {
		si := sweepInfo{Number: s.Number}
		for i, f := range s.Fields {
			si.DataTypes = append(si.DataTypes, f.Header.DataType.String())
			if i > 0 {
				continue
			}
			si.Elevation = f.Header.FixedAngle
			si.Rays = len(f.Rays)
			si.StartedAt = f.Header.SweepStart.UTC().Format("2006-01-02T15:04:05Z")
			for _, r := range f.Rays {
				if !r.Empty() {
					si.Recorded++
				}
			}
		}
		info.Sweeps = append(info.Sweeps, si)
	}
	return info
}

func printText(w io.Writer, info fileInfo) {
	fmt.Fprintf(w, "%s: %s\n", info.Path, info.Format)
	if info.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", info.Error)
		return
	}
	if info.Product == "" {
		return
	}
	fmt.Fprintf(w, "  product %s, task %q, site %s, scan mode %s -> %s\n",
		info.Product, info.Task, info.Site, info.ScanMode, info.Kind)
	for _, s := range info.Sweeps {
		fmt.Fprintf(w, "  sweep %2d  el %5.2f  rays %d/%d  %s  %v\n",
			s.Number, s.Elevation, s.Recorded, s.Rays, s.StartedAt, s.DataTypes)
	}
}

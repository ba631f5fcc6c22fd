package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ConversionEvent announces an ODIM file written by a conversion.
type ConversionEvent struct {
	ID          string    `json:"id"`
	Object      string    `json:"object"`
	Source      string    `json:"source"`
	Nominal     time.Time `json:"nominal"`
	Scans       int       `json:"scans"`
	Quantities  []string  `json:"quantities"`
	InputPath   string    `json:"input_path"`
	OutputPath  string    `json:"output_path"`
	ConvertedAt time.Time `json:"converted_at"`
}

// NewConversionEvent summarises obj written from input to output.
func NewConversionEvent(obj Object, input, output string, at time.Time) ConversionEvent {
	ev := ConversionEvent{
		Object:      obj.Kind().String(),
		InputPath:   input,
		OutputPath:  output,
		ConvertedAt: at.UTC(),
	}

	var scans []*PolarScan
	switch o := obj.(type) {
	case *PolarVolume:
		ev.Source, ev.Nominal = o.Source, o.Nominal
		scans = o.Scans()
	case *PolarScan:
		ev.Source, ev.Nominal = o.Source, o.Nominal
		scans = []*PolarScan{o}
	}
	ev.Scans = len(scans)

	seen := map[string]bool{}
	for _, s := range scans {
		for _, q := range s.ParameterNames() {
			if !seen[q] {
				seen[q] = true
				ev.Quantities = append(ev.Quantities, q)
			}
		}
	}
	ev.ID = conversionID(ev.Object, ev.Source, ev.Nominal, output)
	return ev
}

// conversionID is stable for the same product written to the same path.
func conversionID(object, source string, nominal time.Time, output string) string {
	input := fmt.Sprintf("%s|%s|%s|%s", object, source, nominal.UTC().Format(time.RFC3339), output)
	hash := sha256.Sum256([]byte(input))
	return object + "-" + hex.EncodeToString(hash[:8])
}

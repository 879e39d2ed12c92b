package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/pointset"
)

func joeKuo(n int) construct.DirectionNumbers {
	d, err := construct.JoeKuoDirectionNumbers(n)
	if err != nil {
		panic(err)
	}
	return d
}

func poly(s string) construct.Polynomial {
	p, err := construct.ParsePolynomial(s)
	if err != nil {
		panic(err)
	}
	return p
}

var Presets = map[generator.Kind]map[string]*Config{
	generator.Ordinary: {
		"fibonacci": {Definition: generator.Definition{
			Kind: generator.Ordinary, Dimension: 2, Size: pointset.Plain(987), Vector: []uint64{1, 610},
		}},
		"korobov": {Definition: generator.Definition{
			Kind: generator.Ordinary, Dimension: 4, Size: pointset.Binary(10), Vector: []uint64{1, 433, 97, 17},
		}},
	},
	generator.Sobol: {
		"joe-kuo-2d": {Definition: generator.Definition{
			Kind: generator.Sobol, Dimension: 2, Size: pointset.Binary(10), DirectionNumbers: joeKuo(2),
		}},
		"joe-kuo-8d": {Definition: generator.Definition{
			Kind: generator.Sobol, Dimension: 8, Size: pointset.Binary(16), DirectionNumbers: joeKuo(8),
		}},
		"interlaced": {Definition: generator.Definition{
			Kind: generator.Sobol, Dimension: 3, Interlacing: 2, Size: pointset.Binary(8), DirectionNumbers: joeKuo(6),
		}},
	},
	generator.Polynomial: {
		"z5": {Definition: generator.Definition{
			Kind: generator.Polynomial, Dimension: 3, Modulus: poly("1 0 1 0 0 1"),
			Generators: []construct.Polynomial{poly("1"), poly("1 0 1 1"), poly("1 1 1")},
		}},
		"z3-squared": {Definition: generator.Definition{
			Kind: generator.Polynomial, Dimension: 2, Modulus: poly("1 1 0 1"), ModulusPower: 2,
			Generators: []construct.Polynomial{poly("1"), poly("1 1 0 0 1")},
		}},
	},
	generator.Explicit: {
		"pascal": {Definition: generator.Definition{
			Kind: generator.Explicit, Dimension: 2, Size: pointset.Binary(4),
			Columns: [][]uint64{{8, 4, 2, 1}, {8, 12, 10, 15}},
		}},
	},
}

// GetPreset returns a copy of the named preset, with defaults filled in,
// or nil if it does not exist.
func GetPreset(kind generator.Kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	p, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = string(kind) + "/" + preset
	cfg.Definition = p.Definition
	return cfg
}

// Lookup resolves "kind/name".
func Lookup(ref string) (*Config, error) {
	kindName, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("preset %q: expected kind/name", ref)
	}
	kind, err := generator.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	cfg := GetPreset(kind, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", ref)
	}
	return cfg, nil
}

func ListPresets(kind generator.Kind) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

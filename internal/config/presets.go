package config

import (
	"maps"
	"slices"
)

// Presets holds ready-made inputs per algorithm. Each preset only sets the
// section its algorithm reads.
var Presets = map[string]map[string]*Config{
	"merge": {
		"files": {
			Algorithm: "merge",
			Merge:     MergeConfig{Sizes: []int{20, 30, 10, 5, 30}},
		},
		"small": {
			Algorithm: "merge",
			Merge:     MergeConfig{Sizes: []int{2, 3, 4}},
		},
		"equal": {
			Algorithm: "merge",
			Merge:     MergeConfig{Sizes: []int{8, 8, 8, 8, 8, 8, 8, 8}},
		},
	},
	"knight": {
		"delivery": {
			Algorithm: "knight",
			Knight:    KnightConfig{Size: 5},
		},
		"center": {
			Algorithm: "knight",
			Knight:    KnightConfig{Size: 5, StartRow: 2, StartCol: 2},
		},
		"chess": {
			Algorithm: "knight",
			Knight:    KnightConfig{Size: 8},
		},
		"stuck": {
			Algorithm: "knight",
			Knight:    KnightConfig{Size: 3},
		},
	},
	"closest-pair": {
		"cities": {
			Algorithm:   "closest-pair",
			ClosestPair: DefaultConfig().ClosestPair,
		},
		"line": {
			Algorithm: "closest-pair",
			ClosestPair: ClosestPairConfig{Points: []PointConfig{
				{Label: "P", X: 0, Y: 0},
				{Label: "Q", X: 4, Y: 0},
				{Label: "R", X: 6, Y: 0},
				{Label: "S", X: 13, Y: 0},
			}},
		},
	},
	"bubble": {
		"queue": {
			Algorithm: "bubble",
			Bubble:    BubbleConfig{Values: []int{50, 30, 40, 10, 20}},
		},
		"sorted": {
			Algorithm: "bubble",
			Bubble:    BubbleConfig{Values: []int{1, 2, 3, 4, 5}},
		},
		"reversed": {
			Algorithm: "bubble",
			Bubble:    BubbleConfig{Values: []int{9, 8, 7, 6, 5, 4, 3, 2, 1}},
		},
	},
}

func GetPreset(algorithm, preset string) *Config {
	algoPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	cfg, ok := algoPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(algorithm string) []string {
	algoPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(algoPresets))
}

// Apply copies the preset's algorithm section into c.
func (c *Config) Apply(p *Config) {
	c.Algorithm = p.Algorithm
	switch p.Algorithm {
	case "merge":
		c.Merge = MergeConfig{Sizes: slices.Clone(p.Merge.Sizes)}
	case "knight":
		c.Knight = p.Knight
	case "closest-pair":
		c.ClosestPair = ClosestPairConfig{Points: slices.Clone(p.ClosestPair.Points)}
	case "bubble":
		c.Bubble = BubbleConfig{Values: slices.Clone(p.Bubble.Values)}
	}
}

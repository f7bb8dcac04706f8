package equity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadWeights reads a YAML file mapping feature names to multipliers.
// Missing features keep their default values; unknown names are an
// error.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWeights(data)
}

// ParseWeights parses YAML weight overrides on top of the defaults.
func ParseWeights(data []byte) (Weights, error) {
	raw := map[string]float64{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing weights: %w", err)
	}
	weights := DefaultWeights()
	for name, value := range raw {
		f := Feature(name)
		if _, ok := weights[f]; !ok {
			return nil, fmt.Errorf("unknown evaluation feature %q", name)
		}
		weights[f] = value
	}
	return weights, nil
}

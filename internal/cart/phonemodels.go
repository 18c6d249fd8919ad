package cart

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed phone_models.yaml
var phoneModelsYAML []byte

// Brand groups the enumerated models of one manufacturer.
type Brand struct {
	Name   string   `yaml:"name" json:"name"`
	Models []string `yaml:"models" json:"models"`
}

// PhoneModels is the catalogue shown in the model picker.
type PhoneModels struct {
	Brands []Brand `yaml:"brands" json:"brands"`

	index map[string]string
}

var (
	defaultModelsOnce sync.Once
	defaultModels     *PhoneModels
	defaultModelsErr  error
)

// DefaultPhoneModels returns the embedded catalogue, parsed once.
func DefaultPhoneModels() (*PhoneModels, error) {
	defaultModelsOnce.Do(func() {
		defaultModels, defaultModelsErr = ParsePhoneModels(phoneModelsYAML)
	})
	return defaultModels, defaultModelsErr
}

// ParsePhoneModels decodes a YAML catalogue. Blank names are dropped.
func ParsePhoneModels(data []byte) (*PhoneModels, error) {
	var raw PhoneModels
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cart: parse phone models: %w", err)
	}
	out := &PhoneModels{index: make(map[string]string)}
	for _, brand := range raw.Brands {
		name := strings.TrimSpace(brand.Name)
		if name == "" {
			continue
		}
		b := Brand{Name: name}
		for _, model := range brand.Models {
			model = strings.TrimSpace(model)
			if model == "" {
				continue
			}
			key := modelKey(model)
			if _, dup := out.index[key]; dup {
				continue
			}
			out.index[key] = model
			b.Models = append(b.Models, model)
		}
		out.Brands = append(out.Brands, b)
	}
	return out, nil
}

// Canonical maps input onto the catalogue spelling, ignoring case and spacing. Unknown models are
// returned trimmed; blank input returns nil.
func (p *PhoneModels) Canonical(input *string) *string {
	if input == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*input)
	if trimmed == "" {
		return nil
	}
	if p != nil {
		if model, ok := p.index[modelKey(trimmed)]; ok {
			return &model
		}
	}
	return &trimmed
}

// Known reports whether input names an enumerated model.
func (p *PhoneModels) Known(input string) bool {
	if p == nil {
		return false
	}
	_, ok := p.index[modelKey(input)]
	return ok
}

func modelKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

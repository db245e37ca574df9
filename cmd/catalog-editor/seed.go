package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/changetrack/internal/app/product/domain"
)

// Seed lists products the editor creates before running its edit flow.
type Seed struct {
	Products []SeedProduct `yaml:"products"`
}

// SeedProduct describes one product in a seed file.
type SeedProduct struct {
	ID          string   `yaml:"id"` // generated when empty
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	PriceCents  int64    `yaml:"price_cents"`
	Tags        []string `yaml:"tags"`
	Images      []string `yaml:"images"`
}

// LoadSeed reads and parses a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return &seed, nil
}

// Build turns the seed entry into a new product.
func (s SeedProduct) Build(now time.Time) (*domain.Product, error) {
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}

	price, err := domain.NewMoney(s.PriceCents, 100)
	if err != nil {
		return nil, err
	}

	p, err := domain.NewProduct(id, s.Name, s.Description, s.Category, price, now)
	if err != nil {
		return nil, fmt.Errorf("seed product %q: %w", s.Name, err)
	}
	if err := p.AddTags(s.Tags...); err != nil {
		return nil, fmt.Errorf("seed product %q: %w", s.Name, err)
	}
	if err := p.SetImages(s.Images); err != nil {
		return nil, fmt.Errorf("seed product %q: %w", s.Name, err)
	}
	return p, nil
}

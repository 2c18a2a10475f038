package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SeedProduct struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Price    string `yaml:"price"`
	Stock    int    `yaml:"stock"`
}

type SeedUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type SeedCatalog struct {
	Products []SeedProduct `yaml:"products"`
	Users    []SeedUser    `yaml:"users"`
}

// LoadSeedCatalog 讀取初始商品與用戶
func LoadSeedCatalog(path string) (*SeedCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	catalog := &SeedCatalog{}
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("parse seed file %s failed: %w", path, err)
	}

	for i, p := range catalog.Products {
		if p.Name == "" || p.Price == "" {
			return nil, fmt.Errorf("seed product #%d: name and price are required", i)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("seed product %s: stock must be >= 0", p.Name)
		}
	}
	return catalog, nil
}

package constants

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// LoadCatalog читает варианты фильтров из файла или, если путь пуст,
// из встроенного catalog.yaml.
func LoadCatalog(path string) (domain.Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("failed to read filter catalog %s: %w", path, err)
		}
	}
	return ParseCatalog(data)
}

// ParseCatalog разбирает и проверяет каталог в формате yaml.
func ParseCatalog(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to parse filter catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

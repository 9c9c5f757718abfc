// Package catalog is the immutable table of documents each visa type
// requires, grouped by country and category. The table is embedded at build
// time and validated once.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed requirements.yaml
var requirementsYAML []byte

// DefaultVisaDescription is shown for visa types without a description.
const DefaultVisaDescription = "Visa requirements and document checklist"

type Document struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Required    bool   `yaml:"required" json:"required"`
	Description string `yaml:"description" json:"description"`
}

type Group struct {
	Key       string     `yaml:"key" json:"key"`
	Name      string     `yaml:"name" json:"name"`
	Documents []Document `yaml:"documents" json:"documents"`
}

// RequiredCount counts the mandatory documents of the group.
func (g Group) RequiredCount() int {
	n := 0
	for _, d := range g.Documents {
		if d.Required {
			n++
		}
	}
	return n
}

// OptionalCount counts the optional documents of the group.
func (g Group) OptionalCount() int {
	return len(g.Documents) - g.RequiredCount()
}

type VisaType struct {
	Key         string  `yaml:"key" json:"key"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Categories  []Group `yaml:"categories" json:"categories"`
}

// TotalDocumentCount sums the documents of every group.
func (v VisaType) TotalDocumentCount() int {
	n := 0
	for _, g := range v.Categories {
		n += len(g.Documents)
	}
	return n
}

func (v VisaType) RequiredCount() int {
	n := 0
	for _, g := range v.Categories {
		n += g.RequiredCount()
	}
	return n
}

func (v VisaType) OptionalCount() int {
	return v.TotalDocumentCount() - v.RequiredCount()
}

// Group returns the category with the given key.
func (v VisaType) Group(key string) (Group, bool) {
	for _, g := range v.Categories {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

type Country struct {
	Key       string     `yaml:"key" json:"key"`
	Name      string     `yaml:"name" json:"name"`
	VisaTypes []VisaType `yaml:"visaTypes" json:"visaTypes"`
}

// Catalog is safe for concurrent use; nothing mutates it after Load.
// Returned values share backing arrays with the catalog and must be treated
// as read-only.
type Catalog struct {
	countries []Country
	documents map[string]Document
}

// Load parses and validates a requirements table.
func Load(data []byte) (*Catalog, error) {
	var file struct {
		Countries []Country `yaml:"countries"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	c := &Catalog{countries: file.Countries, documents: make(map[string]Document)}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.countries) == 0 {
		return errors.New("catalog: no countries")
	}
	countries := make(map[string]bool)
	for ci := range c.countries {
		country := &c.countries[ci]
		if country.Key == "" || countries[country.Key] {
			return fmt.Errorf("catalog: missing or duplicate country key %q", country.Key)
		}
		countries[country.Key] = true
		if country.Name == "" {
			country.Name = country.Key
		}

		visas := make(map[string]bool)
		for vi := range country.VisaTypes {
			visa := &country.VisaTypes[vi]
			if visa.Key == "" || visas[visa.Key] {
				return fmt.Errorf("catalog: %s: missing or duplicate visa type key %q", country.Key, visa.Key)
			}
			visas[visa.Key] = true
			if visa.Description == "" {
				visa.Description = DefaultVisaDescription
			}

			groups := make(map[string]bool)
			ids := make(map[string]bool)
			for _, g := range visa.Categories {
				if g.Key == "" || groups[g.Key] {
					return fmt.Errorf("catalog: %s/%s: missing or duplicate category key %q", country.Key, visa.Key, g.Key)
				}
				groups[g.Key] = true
				for _, d := range g.Documents {
					if d.ID == "" || d.Name == "" {
						return fmt.Errorf("catalog: %s/%s/%s: document without id or name", country.Key, visa.Key, g.Key)
					}
					if ids[d.ID] {
						return fmt.Errorf("catalog: %s/%s: duplicate document id %q", country.Key, visa.Key, d.ID)
					}
					ids[d.ID] = true
					if _, ok := c.documents[d.ID]; !ok {
						c.documents[d.ID] = d
					}
				}
			}
		}
	}
	return nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The table is part of the build, so a
// table that fails validation panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(requirementsYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Countries returns every country in display order.
func (c *Catalog) Countries() []Country {
	return slices.Clone(c.countries)
}

func (c *Catalog) Country(key string) (Country, bool) {
	for _, country := range c.countries {
		if country.Key == key {
			return country, true
		}
	}
	return Country{}, false
}

// CountryName returns the display name of a country, or the key itself.
func (c *Catalog) CountryName(key string) string {
	if country, ok := c.Country(key); ok {
		return country.Name
	}
	return key
}

// ListVisaTypes returns the visa types of a country in display order. An
// unknown country yields an empty list.
func (c *Catalog) ListVisaTypes(country string) []VisaType {
	ct, ok := c.Country(country)
	if !ok {
		return []VisaType{}
	}
	return slices.Clone(ct.VisaTypes)
}

// Requirements returns one visa type of a country.
func (c *Catalog) Requirements(country, visaType string) (VisaType, bool) {
	ct, ok := c.Country(country)
	if !ok {
		return VisaType{}, false
	}
	for _, v := range ct.VisaTypes {
		if v.Key == visaType {
			return v, true
		}
	}
	return VisaType{}, false
}

// Lookup finds a document by id anywhere in the catalog. Ids repeated
// across visa types resolve to their first occurrence.
func (c *Catalog) Lookup(documentID string) (Document, bool) {
	d, ok := c.documents[documentID]
	return d, ok
}

// DocumentCount is the number of distinct document ids.
func (c *Catalog) DocumentCount() int {
	return len(c.documents)
}

// Package selections loads the catalog of codes accepted for the order_type and
// shipping_policy fields of the order creation payload.
package selections

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Option is one allowed code with its display label.
type Option struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// Catalog holds the allowed codes of each selection field.
type Catalog struct {
	OrderTypes       []Option `yaml:"order_types"`
	ShippingPolicies []Option `yaml:"shipping_policies"`

	orderTypes       map[string]struct{}
	shippingPolicies map[string]struct{}
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the embedded one when path is blank.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("selections: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("selections: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes, validates and normalizes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("selections: catalog is empty")
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("selections: decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	c.orderTypes = index(c.OrderTypes)
	c.shippingPolicies = index(c.ShippingPolicies)
	return &c, nil
}

func (c *Catalog) validate() error {
	for field, options := range map[string][]Option{
		"order_types":       c.OrderTypes,
		"shipping_policies": c.ShippingPolicies,
	} {
		if len(options) == 0 {
			return fmt.Errorf("selections: %s has no options", field)
		}
		seen := make(map[string]struct{}, len(options))
		for i := range options {
			options[i].Code = strings.TrimSpace(options[i].Code)
			options[i].Label = strings.TrimSpace(options[i].Label)
			code := options[i].Code
			if code == "" {
				return fmt.Errorf("selections: %s[%d] has no code", field, i)
			}
			if _, dup := seen[code]; dup {
				return fmt.Errorf("selections: %s lists %q twice", field, code)
			}
			seen[code] = struct{}{}
		}
	}
	return nil
}

func index(options []Option) map[string]struct{} {
	m := make(map[string]struct{}, len(options))
	for _, o := range options {
		m[o.Code] = struct{}{}
	}
	return m
}

// HasOrderType reports whether code is an allowed order type. Codes are case sensitive.
func (c *Catalog) HasOrderType(code string) bool {
	_, ok := c.orderTypes[code]
	return ok
}

// HasShippingPolicy reports whether code is an allowed shipping policy.
func (c *Catalog) HasShippingPolicy(code string) bool {
	_, ok := c.shippingPolicies[code]
	return ok
}

// OrderTypeCodes returns the allowed order types, sorted.
func (c *Catalog) OrderTypeCodes() []string {
	return keys(c.orderTypes)
}

// ShippingPolicyCodes returns the allowed shipping policies, sorted.
func (c *Catalog) ShippingPolicyCodes() []string {
	return keys(c.shippingPolicies)
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

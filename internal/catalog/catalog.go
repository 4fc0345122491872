// Package catalog holds the node types available for placing on a diagram.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/msalah0e/flowdesigner/internal/diagram"
)

// ErrUnknownType is returned when a node type is not in the catalog.
var ErrUnknownType = errors.New("unknown node type")

// Catalog holds all known node types.
type Catalog struct {
	types  []NodeType
	byName map[string]*NodeType
}

// New creates a catalog from a list of types.
func New(types []NodeType) *Catalog {
	c := &Catalog{
		types:  types,
		byName: make(map[string]*NodeType, len(types)),
	}
	for i := range c.types {
		c.byName[c.types[i].Name] = &c.types[i]
	}
	return c
}

// All returns all types in the catalog.
func (c *Catalog) All() []NodeType {
	return c.types
}

// Get returns a type by name, or nil if not found.
func (c *Catalog) Get(name string) *NodeType {
	return c.byName[name]
}

// Instantiate returns settings for a new node of the named type.
func (c *Catalog) Instantiate(name, id string, x, y float64) (diagram.NodeSettings, error) {
	t := c.Get(name)
	if t == nil {
		return diagram.NodeSettings{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return t.Settings(id, x, y), nil
}

// Search finds types matching a query against name, label, description, category, and tags.
func (c *Catalog) Search(query string) []NodeType {
	q := strings.ToLower(query)
	var results []NodeType
	for _, t := range c.types {
		if matches(t, q) {
			results = append(results, t)
		}
	}
	return results
}

// ByCategory returns types filtered by category.
func (c *Catalog) ByCategory(category string) []NodeType {
	var results []NodeType
	for _, t := range c.types {
		if t.Category == category {
			results = append(results, t)
		}
	}
	return results
}

// Categories returns all unique categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, t := range c.types {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

func matches(t NodeType, query string) bool {
	if strings.Contains(strings.ToLower(t.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Label), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	if strings.ToLower(t.Category) == query {
		return true
	}
	for _, tag := range t.Tags {
		if strings.ToLower(tag) == query {
			return true
		}
	}
	return false
}

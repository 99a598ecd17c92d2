package domain

import "strings"

// Product is a catalog item. The classification engine only ever mutates
// CategoryID (through a batch pass) and the product's vehicle associations;
// products themselves are created and priced elsewhere.
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PartNumber   string `json:"part_number"`
	Description  string `json:"description,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	CategoryID   *int64 `json:"category_id,omitempty"`
	IsInStock    bool   `json:"is_in_stock"`
}

// RawText returns the lowercased concatenation of name, part number, and
// manufacturer. This is the string exact-phrase and alias checks run against.
func (p Product) RawText() string {
	return strings.ToLower(strings.TrimSpace(p.Name + " " + p.PartNumber + " " + p.Manufacturer))
}

// FullText returns the concatenation of name, description, and manufacturer
// used for keyword extraction. Part numbers are excluded; their alphanumeric
// fragments produce spurious keyword tokens.
func (p Product) FullText() string {
	return strings.TrimSpace(p.Name + " " + p.Description + " " + p.Manufacturer)
}

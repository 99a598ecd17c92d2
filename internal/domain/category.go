package domain

// DefaultCatchAllSlug identifies the fallback category that receives every
// product no scoring candidate qualifies for. The slug can be overridden via
// configuration when a catalog names its fallback leaf differently.
const DefaultCatchAllSlug = "other"

// Category is a node in the catalog taxonomy tree. Root nodes have no parent.
// The tree is maintained by catalog administration; the classification engine
// treats it as a read-only snapshot.
type Category struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *int64  `json:"parent_id,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// IsRoot reports whether the category is a top-level node.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

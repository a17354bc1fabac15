package domain

// CatalogCategory is a raw category record from the catalog feed.
// Top-level categories may carry subcategories; the projection flattens
// them into the display list.
type CatalogCategory struct {
	CategoryID    int
	Name          string
	SortOrder     int
	Subcategories []CatalogCategory
}

// Category is a flattened, display-ordered menu category.
type Category struct {
	ID   int
	Name string
}

// PromotionCategory maps a promotion category to its member products.
// Members are master IDs: category requirements count any variant of a
// member product.
type PromotionCategory struct {
	CategoryID int
	Items      []int
}

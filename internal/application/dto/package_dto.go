package dto

// PackageCategoriesRequest cuerpo de POST /api/package/categories.
type PackageCategoriesRequest struct {
	Categories []string `json:"categories" validate:"required,min=1,dive,required"`
}

// PackageIdentifiersRequest cuerpo de POST /api/package/identifiers.
type PackageIdentifiersRequest struct {
	Identifiers []string `json:"identifiers" validate:"required,min=1,dive,required"`
}

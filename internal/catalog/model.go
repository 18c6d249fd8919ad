package catalog

// ImageVariant is one resized rendition of a catalog image.
type ImageVariant struct {
	Ext    string  `json:"ext,omitempty"`
	URL    string  `json:"url"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Mime   string  `json:"mime,omitempty"`
}

// ImageFormats passes through whichever renditions the CMS has produced.
type ImageFormats struct {
	Thumbnail *ImageVariant `json:"thumbnail,omitempty"`
	Small     *ImageVariant `json:"small,omitempty"`
	Medium    *ImageVariant `json:"medium,omitempty"`
	Large     *ImageVariant `json:"large,omitempty"`
}

// Collection is the normalized shape of a collection record.
type Collection struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     *string       `json:"description"`
	DescriptionHTML *string       `json:"descriptionHtml,omitempty"`
	Price           *float64      `json:"price"`
	Image           *string       `json:"image"`
	ImageFormats    *ImageFormats `json:"imageFormats,omitempty"`
	LaunchDate      *string       `json:"launchDate"`
}

// CollectionSummary is the denormalized parent collection carried by a design.
type CollectionSummary struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// Design is the normalized shape of a design record. CollectionID and Collection are either both
// set or both nil.
type Design struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     *string            `json:"description"`
	DescriptionHTML *string            `json:"descriptionHtml,omitempty"`
	Price           float64            `json:"price"`
	Image           *string            `json:"image"`
	ImageFormats    *ImageFormats      `json:"imageFormats,omitempty"`
	CollectionID    *string            `json:"collectionId,omitempty"`
	Collection      *CollectionSummary `json:"collection,omitempty"`
	CreatedAt       *string            `json:"createdAt,omitempty"`
}

// Pagination mirrors the CMS pagination block.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// CollectionPage is one page of collections.
type CollectionPage struct {
	Collections []Collection `json:"collections"`
	Pagination  Pagination   `json:"pagination"`
}

// DesignPage is one page of designs.
type DesignPage struct {
	Designs    []Design   `json:"designs"`
	Pagination Pagination `json:"pagination"`
}

// CollectionWithDesigns pairs a collection with its nested designs.
type CollectionWithDesigns struct {
	Collection Collection `json:"collection"`
	Designs    []Design   `json:"designs"`
}

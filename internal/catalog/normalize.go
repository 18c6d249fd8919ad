package catalog

import (
	"strings"

	"github.com/VAlejandro22/ecommerce-iq/internal/platform/textutil"
)

// pickBestImage resolves an image to one URL, preferring large, then medium, then small, then the
// original upload.
func pickBestImage(img *imageRecord) (*string, *ImageFormats) {
	if img == nil {
		return nil, nil
	}
	formats := convertFormats(img.Formats)
	if f := img.Formats; f != nil {
		for _, variant := range []*imageFormat{f.Large, f.Medium, f.Small} {
			if variant != nil && strings.TrimSpace(variant.URL) != "" {
				return stringPtr(variant.URL), formats
			}
		}
	}
	return optionalString(&img.URL), formats
}

func convertFormats(f *imageFormats) *ImageFormats {
	if f == nil {
		return nil
	}
	return &ImageFormats{
		Thumbnail: convertVariant(f.Thumbnail),
		Small:     convertVariant(f.Small),
		Medium:    convertVariant(f.Medium),
		Large:     convertVariant(f.Large),
	}
}

func convertVariant(v *imageFormat) *ImageVariant {
	if v == nil {
		return nil
	}
	return &ImageVariant{Ext: v.Ext, URL: v.URL, Width: v.Width, Height: v.Height, Size: v.Size, Mime: v.Mime}
}

func normalizeCollection(r collectionRecord) Collection {
	image, formats := pickBestImage(r.Imagen)
	description, descriptionHTML := normalizeDescription(r.Descripcion)
	return Collection{
		ID:              r.DocumentID,
		Name:            strings.TrimSpace(r.Nombre),
		Description:     description,
		DescriptionHTML: descriptionHTML,
		Price:           r.Precio,
		Image:           image,
		ImageFormats:    formats,
		LaunchDate:      optionalString(r.Lanzamiento),
	}
}

func normalizeDesign(r designRecord) Design {
	image, formats := pickBestImage(r.Imagen)
	description, descriptionHTML := normalizeDescription(r.Descripcion)
	d := Design{
		ID:              r.DocumentID,
		Name:            strings.TrimSpace(r.Nombre),
		Description:     description,
		DescriptionHTML: descriptionHTML,
		Price:           r.Precio,
		Image:           image,
		ImageFormats:    formats,
		CreatedAt:       optionalString(r.CreatedAt),
	}
	if ref := r.Coleccion; ref != nil && strings.TrimSpace(ref.DocumentID) != "" {
		collectionImage, _ := pickBestImage(ref.Imagen)
		collectionDescription, _ := normalizeDescription(ref.Descripcion)
		d.CollectionID = stringPtr(ref.DocumentID)
		d.Collection = &CollectionSummary{
			ID:          ref.DocumentID,
			Name:        optionalString(ref.Nombre),
			Description: collectionDescription,
			Image:       collectionImage,
		}
	}
	return d
}

func normalizeDesigns(in []designRecord) []Design {
	out := make([]Design, 0, len(in))
	for _, r := range in {
		out = append(out, normalizeDesign(r))
	}
	return out
}

func normalizeCollections(in []collectionRecord) []Collection {
	out := make([]Collection, 0, len(in))
	for _, r := range in {
		out = append(out, normalizeCollection(r))
	}
	return out
}

// normalizeDescription returns the plain-text and sanitized HTML renderings of a CMS description.
func normalizeDescription(raw *string) (*string, *string) {
	source := optionalString(raw)
	if source == nil {
		return nil, nil
	}
	rendered := textutil.RenderHTML(*source)
	plain := textutil.PlainText(rendered)
	if plain == "" {
		// raw HTML blocks are omitted by the markdown renderer
		plain = textutil.PlainText(*source)
	}
	return optionalString(&plain), optionalString(&rendered)
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringPtr(s string) *string {
	return &s
}

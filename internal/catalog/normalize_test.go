package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPickBestImage(t *testing.T) {
	cases := []struct {
		name string
		img  *imageRecord
		want string
	}{
		{
			name: "all formats prefer large",
			img: &imageRecord{URL: "/orig.png", Formats: &imageFormats{
				Small:  &imageFormat{URL: "/small.png"},
				Medium: &imageFormat{URL: "/medium.png"},
				Large:  &imageFormat{URL: "/large.png"},
			}},
			want: "/large.png",
		},
		{
			name: "medium when large missing",
			img: &imageRecord{URL: "/orig.png", Formats: &imageFormats{
				Small:  &imageFormat{URL: "/small.png"},
				Medium: &imageFormat{URL: "/medium.png"},
			}},
			want: "/medium.png",
		},
		{
			name: "small and original",
			img: &imageRecord{URL: "/orig.png", Formats: &imageFormats{
				Thumbnail: &imageFormat{URL: "/thumb.png"},
				Small:     &imageFormat{URL: "/small.png"},
			}},
			want: "/small.png",
		},
		{
			name: "original only",
			img:  &imageRecord{URL: "/orig.png"},
			want: "/orig.png",
		},
	}
	for _, tc := range cases {
		got, _ := pickBestImage(tc.img)
		if got == nil || *got != tc.want {
			t.Errorf("%s: expected %s, got %v", tc.name, tc.want, got)
		}
	}
}

func TestPickBestImageAbsent(t *testing.T) {
	if got, formats := pickBestImage(nil); got != nil || formats != nil {
		t.Fatalf("expected nil for missing image, got %v %v", got, formats)
	}
	if got, _ := pickBestImage(&imageRecord{Formats: &imageFormats{Thumbnail: &imageFormat{URL: "/t.png"}}}); got != nil {
		t.Fatalf("expected nil when only a thumbnail exists, got %s", *got)
	}
}

func TestNormalizeDesignCollectionInvariant(t *testing.T) {
	var withRef, withoutRef designRecord
	if err := json.Unmarshal([]byte(`{
		"documentId": "d1",
		"nombre": " Ola ",
		"descripcion": "",
		"precio": 12.5,
		"createdAt": "2024-05-01T10:00:00.000Z",
		"coleccion": {"documentId": "c1", "nombre": "Verano", "imagen": {"url": "/c.png"}}
	}`), &withRef); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"documentId": "d2", "nombre": "Solo", "precio": 9, "coleccion": null}`), &withoutRef); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	d := normalizeDesign(withRef)
	if d.ID != "d1" || d.Name != "Ola" || d.Price != 12.5 {
		t.Fatalf("unexpected design: %+v", d)
	}
	if d.Description != nil {
		t.Fatalf("expected empty description normalized to nil, got %q", *d.Description)
	}
	if d.CollectionID == nil || d.Collection == nil || *d.CollectionID != d.Collection.ID {
		t.Fatalf("expected collection id and summary together, got %v %+v", d.CollectionID, d.Collection)
	}
	if d.Collection.Image == nil || *d.Collection.Image != "/c.png" {
		t.Fatalf("expected collection image resolved, got %v", d.Collection.Image)
	}

	u := normalizeDesign(withoutRef)
	if u.CollectionID != nil || u.Collection != nil {
		t.Fatalf("expected uncategorized design, got %v %+v", u.CollectionID, u.Collection)
	}
	if u.Image != nil {
		t.Fatalf("expected nil image, got %s", *u.Image)
	}
}

func TestNormalizeCollectionOptionalFields(t *testing.T) {
	var record collectionRecord
	if err := json.Unmarshal([]byte(`{
		"documentId": "c1",
		"nombre": "Neón",
		"descripcion": "Colores **vivos** <script>x()</script>",
		"precio": null,
		"fecha_lanzamiento": "2024-06-01"
	}`), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	c := normalizeCollection(record)
	if c.Price != nil {
		t.Fatalf("expected nil price, got %v", *c.Price)
	}
	if c.LaunchDate == nil || *c.LaunchDate != "2024-06-01" {
		t.Fatalf("unexpected launch date: %v", c.LaunchDate)
	}
	if c.Description == nil || *c.Description != "Colores vivos x()" {
		t.Fatalf("unexpected plain description: %v", c.Description)
	}
	if c.DescriptionHTML == nil || !strings.Contains(*c.DescriptionHTML, "<strong>vivos</strong>") || strings.Contains(*c.DescriptionHTML, "script") {
		t.Fatalf("unexpected html description: %v", c.DescriptionHTML)
	}
}

func TestRecordsAcceptsObjectOrArray(t *testing.T) {
	var single listEnvelope[collectionRecord]
	if err := json.Unmarshal([]byte(`{"data": {"documentId": "a"}}`), &single); err != nil {
		t.Fatalf("unmarshal single: %v", err)
	}
	if len(single.Data) != 1 || single.Data[0].DocumentID != "a" {
		t.Fatalf("unexpected single data: %+v", single.Data)
	}

	var many listEnvelope[collectionRecord]
	if err := json.Unmarshal([]byte(`{"data": [{"documentId": "a"}, {"documentId": "b"}], "meta": {"pagination": {"page": 2, "pageSize": 2, "pageCount": 3, "total": 6}}}`), &many); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(many.Data) != 2 || many.Meta == nil || many.Meta.Pagination.Total != 6 {
		t.Fatalf("unexpected list envelope: %+v", many)
	}

	var empty listEnvelope[collectionRecord]
	if err := json.Unmarshal([]byte(`{"data": null}`), &empty); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if len(empty.Data) != 0 {
		t.Fatalf("expected no records, got %d", len(empty.Data))
	}
}

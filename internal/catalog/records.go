package catalog

import (
	"bytes"
	"encoding/json"
)

// Raw CMS shapes. Field names follow the Strapi content types (Spanish), and nothing outside this
// package sees them.

type imageFormat struct {
	Ext    string  `json:"ext"`
	URL    string  `json:"url"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Size   float64 `json:"size"`
	Mime   string  `json:"mime"`
}

type imageFormats struct {
	Thumbnail *imageFormat `json:"thumbnail"`
	Small     *imageFormat `json:"small"`
	Medium    *imageFormat `json:"medium"`
	Large     *imageFormat `json:"large"`
}

type imageRecord struct {
	ID         int           `json:"id"`
	DocumentID string        `json:"documentId"`
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Size       float64       `json:"size"`
	Mime       string        `json:"mime"`
	Formats    *imageFormats `json:"formats"`
}

type collectionRecord struct {
	ID          int            `json:"id"`
	DocumentID  string         `json:"documentId"`
	Nombre      string         `json:"nombre"`
	Descripcion *string        `json:"descripcion"`
	Precio      *float64       `json:"precio"`
	Lanzamiento *string        `json:"fecha_lanzamiento"`
	Imagen      *imageRecord   `json:"imagen"`
	Disenos     []designRecord `json:"disenos"`
}

type collectionRef struct {
	DocumentID  string       `json:"documentId"`
	Nombre      *string      `json:"nombre"`
	Descripcion *string      `json:"descripcion"`
	Imagen      *imageRecord `json:"imagen"`
}

type designRecord struct {
	ID          int            `json:"id"`
	DocumentID  string         `json:"documentId"`
	Nombre      string         `json:"nombre"`
	Descripcion *string        `json:"descripcion"`
	Precio      float64        `json:"precio"`
	Imagen      *imageRecord   `json:"imagen"`
	CreatedAt   *string        `json:"createdAt"`
	Coleccion   *collectionRef `json:"coleccion"`
}

type paginationMeta struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type responseMeta struct {
	Pagination *paginationMeta `json:"pagination"`
}

// records decodes `data` whether the CMS sent one object or an array.
type records[T any] []T

func (r *records[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*r = nil
		return nil
	case trimmed[0] == '[':
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*r = list
		return nil
	default:
		var one T
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*r = records[T]{one}
		return nil
	}
}

type listEnvelope[T any] struct {
	Data records[T]    `json:"data"`
	Meta *responseMeta `json:"meta"`
}

type itemEnvelope[T any] struct {
	Data *T `json:"data"`
}

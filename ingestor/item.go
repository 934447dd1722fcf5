package ingestor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingField means a required field was absent on an ingestion item.
	ErrMissingField = errors.New("missing field")

	// ErrUnsupportedType means an item named a source type nobody handles.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Source types attached to every chunk. Persisted in record ids and
// metadata, so the values must not change.
const (
	SourceTypePDF     = "pdf"
	SourceTypeText    = "text"
	SourceTypeYouTube = "youtube"
)

// Item is one piece of study material to ingest. The variants are PDFItem,
// TextItem, and YouTubeItem; required fields are enforced at construction
// via DecodeItem or by the compiler when variants are built directly.
type Item interface {
	// Title is the display name used in errors and citations.
	Title() string

	resolve(ctx context.Context, ing *Ingestor) (resolved, error)
}

// resolved is an item after extraction: the text to chunk plus its
// canonical identity.
type resolved struct {
	text       string
	title      string
	sourceType string
	sourceID   string
}

// PDFItem is a base64-encoded PDF upload.
type PDFItem struct {
	Name       string
	DataBase64 string
}

func (it PDFItem) Title() string {
	return it.Name
}

func (it PDFItem) resolve(ctx context.Context, ing *Ingestor) (resolved, error) {
	if ing.options.PDF == nil {
		return resolved{}, fmt.Errorf("%w: pdf", ErrUnsupportedType)
	}
	text, err := ing.options.PDF.Extract(ctx, it.DataBase64)
	if err != nil {
		return resolved{}, err
	}
	return resolved{
		text:       text,
		title:      it.Name,
		sourceType: SourceTypePDF,
		sourceID:   it.Name,
	}, nil
}

// TextItem is raw text pasted or uploaded by the user. Empty text is
// allowed and produces zero chunks.
type TextItem struct {
	Name string
	Text string
}

func (it TextItem) Title() string {
	return it.Name
}

func (it TextItem) resolve(ctx context.Context, ing *Ingestor) (resolved, error) {
	return resolved{
		text:       it.Text,
		title:      it.Name,
		sourceType: SourceTypeText,
		sourceID:   it.Name,
	}, nil
}

// YouTubeItem is a video whose transcript gets ingested. Name is optional
// and defaults to "youtube:{videoId}".
type YouTubeItem struct {
	URL  string
	Name string
}

func (it YouTubeItem) Title() string {
	if len(it.Name) > 0 {
		return it.Name
	}
	return it.URL
}

func (it YouTubeItem) resolve(ctx context.Context, ing *Ingestor) (resolved, error) {
	if ing.options.YouTube == nil {
		return resolved{}, fmt.Errorf("%w: youtube", ErrUnsupportedType)
	}
	text, vid, err := ing.options.YouTube.Extract(ctx, it.URL)
	if err != nil {
		return resolved{}, err
	}

	title := it.Name
	if len(title) == 0 {
		title = "youtube:" + vid
	}

	return resolved{
		text:       text,
		title:      title,
		sourceType: SourceTypeYouTube,
		sourceID:   vid,
	}, nil
}

// wireItem is the loosely-typed JSON shape accepted on the wire.
type wireItem struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	ItemTitle  string  `json:"title"`
	Text       *string `json:"text"`
	URL        string  `json:"url"`
	DataBase64 string  `json:"dataBase64"`
}

// DecodeItem maps one wire-format JSON item onto its typed variant,
// enforcing per-type required fields.
func DecodeItem(raw json.RawMessage) (Item, error) {
	var wire wireItem
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}

	name := wire.Name
	if len(name) == 0 {
		name = wire.ItemTitle
	}
	if len(name) == 0 {
		name = wire.Type
	}

	switch wire.Type {
	case SourceTypePDF:
		if len(wire.Name) == 0 {
			return nil, fmt.Errorf("%w: pdf item needs name", ErrMissingField)
		}
		if len(wire.DataBase64) == 0 {
			return nil, fmt.Errorf("%w: pdf item %q needs dataBase64", ErrMissingField, name)
		}
		return PDFItem{Name: name, DataBase64: wire.DataBase64}, nil

	case SourceTypeText:
		if wire.Text == nil {
			return nil, fmt.Errorf("%w: text item %q needs text", ErrMissingField, name)
		}
		return TextItem{Name: name, Text: *wire.Text}, nil

	case SourceTypeYouTube:
		if len(wire.URL) == 0 {
			return nil, fmt.Errorf("%w: youtube item needs url", ErrMissingField)
		}
		// no type-name fallback here: an unnamed video defaults to
		// "youtube:{videoId}" once the id is known
		yt := YouTubeItem{URL: wire.URL, Name: wire.Name}
		if len(yt.Name) == 0 {
			yt.Name = wire.ItemTitle
		}
		return yt, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, wire.Type)
	}
}

// DecodeItems decodes a whole wire-format batch.
func DecodeItems(raw []json.RawMessage) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		item, err := DecodeItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

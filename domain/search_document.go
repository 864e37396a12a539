package domain

import "strings"

// TranscriptChunk is one timestamped span of spoken text from a caption file.
type TranscriptChunk struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Transcript is the parsed output for one caption file: the full space-joined
// text plus the ordered chunks it was assembled from.
type Transcript struct {
	Full   string
	Chunks []TranscriptChunk
}

// SearchDocument is the unit stored in the search engine, one per catalog item.
// Documents are written wholesale; reindexing an item re-derives and overwrites
// the whole document.
type SearchDocument struct {
	ItemID           int64             `json:"item_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Tags             string            `json:"tags"`
	Speaker          string            `json:"speaker"`
	BibleCharacter   string            `json:"bible_character"`
	Location         string            `json:"location"`
	Scriptures       string            `json:"scriptures"`
	Transcript       string            `json:"transcript"`
	TranscriptChunks []TranscriptChunk `json:"transcript_chunks"`
}

// NewSearchDocument shapes a catalog item plus an optional transcript into a
// document. A nil transcript yields empty-string/empty-list fields, never
// omitted ones.
func NewSearchDocument(item *Item, transcript *Transcript) SearchDocument {
	doc := SearchDocument{
		ItemID:           item.ID(),
		Title:            item.Title(),
		Description:      item.Description(),
		Tags:             strings.Join(item.Tags(), " "),
		Speaker:          strings.Join(item.Speakers(), " "),
		BibleCharacter:   strings.Join(item.Characters(), " "),
		Location:         item.Location(),
		Scriptures:       strings.Join(item.Scriptures(), " "),
		TranscriptChunks: []TranscriptChunk{},
	}

	if transcript != nil {
		doc.Transcript = transcript.Full
		if len(transcript.Chunks) > 0 {
			doc.TranscriptChunks = transcript.Chunks
		}
	}

	return doc
}

package driver

import "time"

// ItemRow is a catalog row with its associations resolved to display strings.
type ItemRow struct {
	ID          int64
	Title       string
	Description string
	Thumbnail   string
	Duration    int
	Speakers    []string
	Tags        []string
	Characters  []string
	Location    string
	Scriptures  []string
	Watched     bool
	CreatedAt   time.Time
}

// ChunkRow mirrors one transcript chunk as stored in the engine.
type ChunkRow struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// DocumentRow is the engine-side document shape.
type DocumentRow struct {
	ItemID           int64      `json:"item_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Tags             string     `json:"tags"`
	Speaker          string     `json:"speaker"`
	BibleCharacter   string     `json:"bible_character"`
	Location         string     `json:"location"`
	Scriptures       string     `json:"scriptures"`
	Transcript       string     `json:"transcript"`
	TranscriptChunks []ChunkRow `json:"transcript_chunks"`
}

// SearchHitRow is one scored engine hit before gateway conversion.
type SearchHitRow struct {
	ItemID     int64
	Score      float64
	Highlights map[string][]string
	Document   DocumentRow
}

// DriverError represents an error from the driver layer.
type DriverError struct {
	Op  string
	Err string
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}

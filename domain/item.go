package domain

import (
	"errors"
	"time"
)

// Item is a read-only view of a catalog row. The catalog store owns the data;
// this service only derives search documents and results from it.
type Item struct {
	id          int64
	title       string
	description string
	thumbnail   string
	duration    int
	speakers    []string
	tags        []string
	characters  []string
	location    string
	scriptures  []string
	watched     bool
	createdAt   time.Time
}

func NewItem(id int64, title, description, thumbnail string, duration int, speakers, tags, characters []string, location string, scriptures []string, watched bool, createdAt time.Time) (*Item, error) {
	if id <= 0 {
		return nil, errors.New("item ID must be positive")
	}
	if title == "" {
		return nil, errors.New("item title cannot be empty")
	}
	if duration < 0 {
		return nil, errors.New("item duration cannot be negative")
	}

	return &Item{
		id:          id,
		title:       title,
		description: description,
		thumbnail:   thumbnail,
		duration:    duration,
		speakers:    speakers,
		tags:        tags,
		characters:  characters,
		location:    location,
		scriptures:  scriptures,
		watched:     watched,
		createdAt:   createdAt,
	}, nil
}

func (i *Item) ID() int64 {
	return i.id
}

func (i *Item) Title() string {
	return i.title
}

func (i *Item) Description() string {
	return i.description
}

func (i *Item) Thumbnail() string {
	return i.thumbnail
}

func (i *Item) Duration() int {
	return i.duration
}

func (i *Item) Speakers() []string {
	return i.speakers
}

func (i *Item) Tags() []string {
	return i.tags
}

func (i *Item) Characters() []string {
	return i.characters
}

func (i *Item) Location() string {
	return i.location
}

func (i *Item) Scriptures() []string {
	return i.scriptures
}

func (i *Item) Watched() bool {
	return i.watched
}

func (i *Item) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Item) HasTag(tag string) bool {
	if tag == "" {
		return false
	}

	for _, t := range i.tags {
		if t == tag {
			return true
		}
	}
	return false
}

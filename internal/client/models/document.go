package models

import "time"

// Document is a submitted text with its sentences. ID, CreatedAt and
// UpdatedAt are zero until the document is stored for the first time.
type Document struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SourceText string     `json:"sourceText"`
	Direction  Direction  `json:"direction"`
	Sentences  []Sentence `json:"sentences"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	if d.Sentences != nil {
		sentences := make([]Sentence, len(d.Sentences))
		for i, s := range d.Sentences {
			sentences[i] = s.Clone()
		}
		d.Sentences = sentences
	}
	return d
}

// Progress counts translated sentences against the total.
func (d Document) Progress() (loaded, total int) {
	for _, s := range d.Sentences {
		if s.Status == StatusLoaded {
			loaded++
		}
	}
	return loaded, len(d.Sentences)
}

// ResetInterrupted returns sentences stored mid-flight to pending and
// reports how many were reset.
func (d *Document) ResetInterrupted() int {
	n := 0
	for i := range d.Sentences {
		if d.Sentences[i].Reset() {
			n++
		}
	}
	return n
}

// Index returns the position of the sentence with the given id, or -1.
func (d Document) Index(id string) int {
	for i, s := range d.Sentences {
		if s.ID == id {
			return i
		}
	}
	return -1
}

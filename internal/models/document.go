package models

// Document is an uploaded resume. It is read once, its text extracted, then discarded.
type Document struct {
	Name        string
	Content     []byte
	ContentType string

	// Err is set when the file could not be read. Content is empty and the
	// document is still screened, with the fallback score.
	Err error
}

// Failed builds a Document for a file that could not be read.
func Failed(name string, err error) Document {
	return Document{Name: name, Err: err}
}

// ExtractedText is the plain text recovered from a Document.
type ExtractedText struct {
	Text      string
	Format    string
	PageCount int
	PagesRead int
}

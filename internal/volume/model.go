package volume

// ChunkType identifies the content block variant a chunk was ingested from.
type ChunkType string

const (
	ChunkRegular ChunkType = "regular"
	ChunkPlain   ChunkType = "plain"
	ChunkVideo   ChunkType = "video"
)

// Volume is a whole content collection (a textbook) normalised from the CMS.
type Volume struct {
	Title       string
	Description string
	Slug        string
	// Summary is nil when the CMS does not provide a volume summary.
	Summary *string
	// FreePages lists page slugs readable without gating, in source order.
	FreePages []string
	Pages     []Page
}

// Parent references the chapter enclosing a page.
type Parent struct {
	Title string `yaml:"title" json:"title"`
	Slug  string `yaml:"slug" json:"slug"`
}

// Page is one document-level unit of a volume.
type Page struct {
	Title  string
	Slug   string
	Parent *Parent
	// Order positions the page within the volume; ties keep source order.
	Order int
	// Assignments holds derived evaluation tags such as "summary" and "quiz".
	Assignments []string
	// Quiz is nil when the page has no quiz. It is never an empty slice.
	Quiz   []QuizItem
	Chunks []Chunk
}

// HasQuiz reports whether the page carries at least one quiz item.
func (p Page) HasQuiz() bool {
	return len(p.Quiz) > 0
}

// Chunk is a content sub-unit of a page, the granularity of both rendering and
// reconciliation.
type Chunk struct {
	Title string
	Slug  string
	// Depth is the heading level used for the chunk title: 2, 3 or 4.
	Depth      int
	Content    string
	CRI        *QuestionAnswer
	ShowHeader bool
	Type       ChunkType
}

// QuestionAnswer is a constructed-response item attached to a chunk.
type QuestionAnswer struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
	Slug     string `yaml:"slug" json:"slug"`
}

// QuizItem is a multiple-choice question. Generated questions are resolved into
// this shape during ingestion.
type QuizItem struct {
	Question string       `yaml:"question" json:"question"`
	Answers  []QuizAnswer `yaml:"answers" json:"answers"`
}

// QuizAnswer is one choice of a QuizItem.
type QuizAnswer struct {
	Answer  string `yaml:"answer" json:"answer"`
	Correct bool   `yaml:"correct" json:"correct"`
}

// Heading is a sub-heading discovered inside a chunk body.
type Heading struct {
	Level int    `yaml:"level" json:"level"`
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
}

// ChunkCount returns the number of chunks across every page.
func (v *Volume) ChunkCount() int {
	if v == nil {
		return 0
	}
	total := 0
	for _, page := range v.Pages {
		total += len(page.Chunks)
	}
	return total
}

// ChunkSlugs returns every chunk slug in page then chunk order. Slugs repeated
// across pages appear once per occurrence.
func (v *Volume) ChunkSlugs() []string {
	if v == nil {
		return nil
	}
	slugs := make([]string, 0, v.ChunkCount())
	for _, page := range v.Pages {
		for _, chunk := range page.Chunks {
			slugs = append(slugs, chunk.Slug)
		}
	}
	return slugs
}

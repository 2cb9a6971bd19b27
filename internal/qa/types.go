package qa

// Request is a question over the indexed documents.
type Request struct {
	Question    string   `json:"question"`
	DocumentIDs []string `json:"document_ids,omitempty"`
	TopK        int      `json:"top_k,omitempty"`
}

// Source cites the page a passage used for an answer came from.
type Source struct {
	DocumentID    string `json:"document_id"`
	DocumentTitle string `json:"document_title"`
	PageNumber    int    `json:"page_number"`
	Excerpt       string `json:"excerpt"`
}

// Answer is the model's reply together with its deduplicated sources.
type Answer struct {
	Answer     string   `json:"answer"`
	AnswerHTML string   `json:"answer_html,omitempty"`
	Sources    []Source `json:"sources"`
}

const (
	// MaxQuestionLength bounds a question, in characters.
	MaxQuestionLength = 1000

	// DefaultTopK is used when a request leaves TopK unset.
	DefaultTopK = 5

	// MaxTopK is the largest accepted TopK.
	MaxTopK = 20

	excerptLength = 200
)

// NoResultsAnswer is returned without calling the model when retrieval finds nothing.
const NoResultsAnswer = "I couldn't find any relevant information in the uploaded documents to answer your question."

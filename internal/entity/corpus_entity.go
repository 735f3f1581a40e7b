package entity

// CorpusEntry is one row of the Soros Q&A knowledge base.
// Id is the zero-based position among retained rows and is stable for a given source file.
type CorpusEntry struct {
	Id       int
	Label    string
	Question string
	Answer   string
}

// Document is the text that gets embedded for retrieval.
func (e CorpusEntry) Document() string {
	return "Q: " + e.Question + "\nA: " + e.Answer
}

// RetrievalResult pairs a corpus entry with its similarity to the query.
// Score is 0 when the result came from the fallback path.
type RetrievalResult struct {
	Entry CorpusEntry
	Score float64
}

// ScoredRow is what an index backend returns before the entries are resolved.
type ScoredRow struct {
	Id         int
	Similarity float64
}

// IndexedDocument is the unit written into a corpus index.
type IndexedDocument struct {
	Id        int
	Label     string
	Document  string
	Embedding []float32
}

// PromptContext is everything the prompt renderer needs, gathered up front.
type PromptContext struct {
	Question       string
	Retrieved      []RetrievalResult
	Ticker         string
	MarketSnapshot string
	MarketEnabled  bool
}

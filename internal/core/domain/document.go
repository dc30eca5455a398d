package domain

import "time"

type LawDocumentStatus string

const (
	StatusUploaded   LawDocumentStatus = "uploaded"
	StatusProcessing LawDocumentStatus = "processing"
	StatusIndexed    LawDocumentStatus = "indexed"
	StatusFailed     LawDocumentStatus = "failed"
)

// LawDocument is an uploaded law source file tracked through ingestion.
type LawDocument struct {
	ID          string            `json:"id"`
	Filename    string            `json:"filename"`
	MimeType    string            `json:"mime_type"`
	StoragePath string            `json:"storage_path"`
	LawName     string            `json:"law_name,omitempty"`
	Status      LawDocumentStatus `json:"status"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// LawArticle is one article parsed from a law source file. The field layout
// mirrors the JSON corpus format (madde_no/baslik/icerik/paragraflar/kanun_adi).
type LawArticle struct {
	ArticleNo  string         `json:"madde_no"`
	Title      string         `json:"baslik"`
	Content    string         `json:"icerik"`
	Paragraphs []LawParagraph `json:"paragraflar"`
	LawName    string         `json:"kanun_adi"`
}

type LawParagraph struct {
	No      string `json:"no"`
	Content string `json:"icerik"`
}

// LawChunk is an indexed passage of a law article: the unit the retrieval
// pipeline ranks. Chunks are persisted to the corpus store and mirrored into
// the vector index.
type LawChunk struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// CorpusStats summarizes the indexed corpus for the stats endpoint.
type CorpusStats struct {
	TotalChunks    int      `json:"total_chunks"`
	UniqueArticles int      `json:"unique_articles"`
	LawNames       []string `json:"law_names"`
}

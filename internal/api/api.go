// Package api holds the JSON shapes exchanged with the collaborator backend.
package api

// HTTP routes served by the collaborator backend.
const (
	PathUpload      = "/api/upload"
	PathDeleteImage = "/api/delete-image"
	PathExportPDF   = "/api/export-pdf"
	PathChat        = "/api/chat"
	PathHealth      = "/api/health"

	// UploadField is the multipart field carrying the file.
	UploadField = "file"
)

// Error messages returned to callers. They are part of the wire contract.
const (
	MsgNoFile           = "No file uploaded"
	MsgFileTooLarge     = "File too large"
	MsgUnsupportedImage = "Only image uploads are allowed"
	MsgUploadFailed     = "Failed to upload image"
	MsgNoPublicID       = "No public ID provided"
	MsgDeleteFailed     = "Failed to delete image"
	MsgNoHTML           = "Missing html content in request body"
	MsgPDFFailed        = "Failed to generate PDF"
	MsgNoMessages       = "Please include a valid message array."
	MsgChatFailed       = "Error contacting Groq."
)

type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type DeleteImageRequest struct {
	PublicID string `json:"public_id"`
}

type DeleteImageResponse struct {
	Success bool `json:"success"`
}

type ExportPDFRequest struct {
	HTML string `json:"html"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// NoteSummary is the note shape posted along with a chat request.
type NoteSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Tags     []Tag  `json:"tags"`
}

// ChatRequest carries the whole transcript. A nil Notes slice means the
// caller sent none, which differs from an empty list.
type ChatRequest struct {
	Messages []Message     `json:"messages"`
	Notes    []NoteSummary `json:"notes"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

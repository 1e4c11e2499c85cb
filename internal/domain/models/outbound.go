package models

// OutboundMessageRequest represents a message pushed to a phone number over WhatsApp.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// ShareReportRequest asks for a shareable link to a worker report.
// When To is set the link is also delivered over WhatsApp.
type ShareReportRequest struct {
	WorkerID string `json:"workerId" binding:"omitempty,len=24,hexadecimal"`
	Message  string `json:"message" binding:"max=500"`
	To       string `json:"to" binding:"omitempty,e164|numeric"`
}

// ShareReportResponse carries the generated deep link.
type ShareReportResponse struct {
	Message       string `json:"message"`
	ShareableLink string `json:"shareableLink"`
	Delivered     bool   `json:"delivered"`
}

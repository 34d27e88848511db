package dto

type AskRequest struct {
	AuthorID string `json:"author_id"`
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type OpenTicketRequest struct {
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Topic      string `json:"topic"`
}

type TicketResponse struct {
	ID              string `json:"id"`
	ChannelID       string `json:"channel_id"`
	Welcome         string `json:"welcome"`
	ContractSummary string `json:"contract_summary"`
}

type TicketMessageRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

type CloseTicketRequest struct {
	AuthorID string `json:"author_id"`
}

type CloseTicketResponse struct {
	Summary string `json:"summary"`
}

type OpenTicketCountResponse struct {
	Owner string `json:"owner"`
	Count int    `json:"count"`
}

type KBInfoResponse struct {
	Entries int    `json:"entries"`
	Vectors int    `json:"vectors"`
	Model   string `json:"model"`
}

type ReindexResponse struct {
	Entries int `json:"entries"`
}

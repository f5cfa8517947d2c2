package models

// Message records an outbound SMS or email dispatch attempt and its outcome.
type Message struct {
	BaseModel

	Channel   string `gorm:"type:varchar(16);not null;index" json:"channel"`
	Provider  string `gorm:"type:varchar(32);not null" json:"provider"`
	Recipient string `gorm:"not null" json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `gorm:"type:text" json:"body"`

	ProviderMessageID string `json:"provider_message_id,omitempty"`
	Status            string `gorm:"type:varchar(16);index" json:"status"`
	Error             string `gorm:"type:text" json:"error,omitempty"`
}

// Message status values.
const (
	MessageStatusSent   = "sent"
	MessageStatusFailed = "failed"
)

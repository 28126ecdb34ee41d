package webhook

// Discord embed accent colors
const (
	ColorRed    = 0xE74C3C
	ColorOrange = 0xE67E22
	ColorGreen  = 0x2ECC71
	ColorBlue   = 0x3498DB
)

// Message is a Discord webhook payload: either a plain content string
// or a list of embeds.
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed follows the conventional Discord embed shape
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

// EmbedField is one name/value pair inside an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the small footer line of an embed
type EmbedFooter struct {
	Text string `json:"text"`
}

package notify

// --- Discord Payload Types (Embeds) ---

// DiscordPayload is the top-level structure for Discord webhook messages.
type DiscordPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents an embed in a Discord webhook message.
type DiscordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"` // Decimal color code
	Fields      []DiscordField `json:"fields"`
	Footer      *DiscordFooter `json:"footer,omitempty"`
	Timestamp   string         `json:"timestamp"` // ISO-8601 generation time
}

// DiscordField is a field within a Discord embed.
type DiscordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordFooter is the footer of a Discord embed.
type DiscordFooter struct {
	Text string `json:"text"`
}

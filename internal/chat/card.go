// Package chat renders and delivers Google Chat webhook messages.
package chat

// Message is the top-level webhook payload. Either Text or Cards is set,
// never both.
type Message struct {
	Text  string `json:"text,omitempty"`
	Cards []Card `json:"cards,omitempty"`
}

// Card is a single card in the cards v1 schema. Field names must match the
// Chat API exactly.
type Card struct {
	Header   *CardHeader `json:"header,omitempty"`
	Sections []Section   `json:"sections,omitempty"`
}

// CardHeader holds the card title row.
type CardHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Section groups widgets under an optional header.
type Section struct {
	Header  string   `json:"header,omitempty"`
	Widgets []Widget `json:"widgets"`
}

// Widget is one renderable element. Exactly one field is set per widget.
type Widget struct {
	TextParagraph *TextParagraph `json:"textParagraph,omitempty"`
	KeyValue      *KeyValue      `json:"keyValue,omitempty"`
	Buttons       []Button       `json:"buttons,omitempty"`
}

// TextParagraph renders a block of text with limited HTML formatting.
type TextParagraph struct {
	Text string `json:"text"`
}

// KeyValue renders a labelled value row.
type KeyValue struct {
	TopLabel    string `json:"topLabel,omitempty"`
	Content     string `json:"content"`
	BottomLabel string `json:"bottomLabel,omitempty"`
}

// Button wraps a text button.
type Button struct {
	TextButton TextButton `json:"textButton"`
}

// TextButton is a clickable label that opens a link.
type TextButton struct {
	Text    string  `json:"text"`
	OnClick OnClick `json:"onClick"`
}

// OnClick holds the button action.
type OnClick struct {
	OpenLink OpenLink `json:"openLink"`
}

// OpenLink is the target URL of a button.
type OpenLink struct {
	URL string `json:"url"`
}

// TextMessage wraps a plain string into the webhook text payload.
func TextMessage(text string) Message {
	return Message{Text: text}
}

package notion

// RichText is one rich text fragment in a property or block. Outbound
// payloads populate Text; inbound payloads also carry PlainText.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent is the literal content of a rich text fragment
type TextContent struct {
	Content string `json:"content"`
}

// SelectOption is a select or multi-select option referenced by name
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is a date property value (date portion only, no time)
type DateValue struct {
	Start string `json:"start"`
}

// Properties is the property payload sent on page create and update
type Properties map[string]any

// Outbound property payloads. One struct per property type so each
// serializes with exactly the key Notion expects.

type TitleProperty struct {
	Title []RichText `json:"title"`
}

type RichTextProperty struct {
	RichText []RichText `json:"rich_text"`
}

type URLProperty struct {
	URL string `json:"url"`
}

type SelectProperty struct {
	Select SelectOption `json:"select"`
}

type MultiSelectProperty struct {
	MultiSelect []SelectOption `json:"multi_select"`
}

type NumberProperty struct {
	Number int `json:"number"`
}

type DateProperty struct {
	Date DateValue `json:"date"`
}

func NewTitle(text string) TitleProperty {
	return TitleProperty{Title: []RichText{{Text: &TextContent{Content: text}}}}
}

func NewRichText(text string) RichTextProperty {
	return RichTextProperty{RichText: []RichText{{Text: &TextContent{Content: text}}}}
}

func NewURL(url string) URLProperty {
	return URLProperty{URL: url}
}

func NewSelect(name string) SelectProperty {
	return SelectProperty{Select: SelectOption{Name: name}}
}

func NewNumber(n int) NumberProperty {
	return NumberProperty{Number: n}
}

func NewDate(start string) DateProperty {
	return DateProperty{Date: DateValue{Start: start}}
}

// Block is a content block. Exactly one of the type payloads is set,
// matching Type.
type Block struct {
	Object    string        `json:"object"`
	Type      string        `json:"type"`
	Paragraph *RichTextBody `json:"paragraph,omitempty"`
	Heading2  *RichTextBody `json:"heading_2,omitempty"`
	Divider   *struct{}     `json:"divider,omitempty"`
}

// RichTextBody is the rich text payload shared by paragraph and heading blocks
type RichTextBody struct {
	RichText []RichText `json:"rich_text"`
}

func NewParagraph(text string) Block {
	return Block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &RichTextBody{RichText: []RichText{{Type: "text", Text: &TextContent{Content: text}}}},
	}
}

func NewHeading(text string) Block {
	return Block{
		Object:   "block",
		Type:     "heading_2",
		Heading2: &RichTextBody{RichText: []RichText{{Type: "text", Text: &TextContent{Content: text}}}},
	}
}

func NewDivider() Block {
	return Block{Object: "block", Type: "divider", Divider: &struct{}{}}
}

// Page is a database row as returned by the query endpoint
type Page struct {
	ID         string                  `json:"id"`
	Properties map[string]PageProperty `json:"properties"`
}

// PageProperty is one inbound property value. Only the field matching Type
// is populated.
type PageProperty struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	URL         string         `json:"url,omitempty"`
}

// Plain returns the property's plain text for title and rich_text
// properties, or an empty string for anything else.
func (p PageProperty) Plain() string {
	fragments := p.RichText
	if p.Type == "title" {
		fragments = p.Title
	}

	var sb []byte
	for _, rt := range fragments {
		if rt.PlainText != "" {
			sb = append(sb, rt.PlainText...)
		} else if rt.Text != nil {
			sb = append(sb, rt.Text.Content...)
		}
	}
	return string(sb)
}

// SelectName returns the select option name, or an empty string if unset
func (p PageProperty) SelectName() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// MultiSelectNames returns the multi-select option names in order
func (p PageProperty) MultiSelectNames() []string {
	names := make([]string, 0, len(p.MultiSelect))
	for _, opt := range p.MultiSelect {
		names = append(names, opt.Name)
	}
	return names
}

// QueryRequest is the database query payload
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// Filter is a compound AND filter over property conditions
type Filter struct {
	And []PropertyFilter `json:"and"`
}

// PropertyFilter is a single property condition
type PropertyFilter struct {
	Property string         `json:"property"`
	RichText *TextCondition `json:"rich_text,omitempty"`
}

// TextCondition is an equality condition on a text property
type TextCondition struct {
	Equals string `json:"equals"`
}

// QueryResponse is one page of database query results
type QueryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

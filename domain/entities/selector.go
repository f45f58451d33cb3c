package entities

import "fmt"

// SelectorStrategy tells the driver how to interpret Selector.Value
type SelectorStrategy string

const (
	ByCSS      SelectorStrategy = "css"
	ByLinkText SelectorStrategy = "link_text"
)

// Selector identifies zero or more DOM elements on the current page
type Selector struct {
	Strategy SelectorStrategy `json:"strategy"`
	Value    string           `json:"value"`
}

// CSS returns a CSS selector
func CSS(value string) Selector {
	return Selector{Strategy: ByCSS, Value: value}
}

// LinkText returns a selector matching a link by its visible text
func LinkText(text string) Selector {
	return Selector{Strategy: ByLinkText, Value: text}
}

// IsZero reports whether the selector is unset
func (s Selector) IsZero() bool {
	return s.Value == ""
}

func (s Selector) String() string {
	if s.Strategy == ByLinkText {
		return fmt.Sprintf("a=%s", s.Value)
	}
	return s.Value
}

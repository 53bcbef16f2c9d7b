// Package templates holds the templ components of the story page.
package templates

// PageData is everything the story page can show.
type PageData struct {
	Text    string
	Warning string
	Error   string
	Emotion string
	Story   string
}

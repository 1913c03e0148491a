// Package layout holds the page chrome shared by every shop page.
package layout

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is common to every page
type PageData struct {
	Title string
	Flash *FlashMessage
}

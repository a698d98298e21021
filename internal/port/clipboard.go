package port

// Clipboard places text on the system clipboard.
type Clipboard interface {
	Copy(text string) error
}

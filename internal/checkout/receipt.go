package checkout

import (
	_ "embed"
)

//go:embed receipt.html
var receiptHTML []byte

const (
	ReceiptFilename    = "event-craft-ticket.html"
	ReceiptContentType = "text/html; charset=utf-8"
)

// FileSaver stores a file on the user's side
type FileSaver interface {
	Save(filename string, content []byte) error
}

// FileSaverFunc adapts a function to FileSaver
type FileSaverFunc func(filename string, content []byte) error

func (f FileSaverFunc) Save(filename string, content []byte) error {
	return f(filename, content)
}

// Receipt returns the ticket document. The content is fixed and carries no
// booking data.
func Receipt() []byte {
	out := make([]byte, len(receiptHTML))
	copy(out, receiptHTML)
	return out
}

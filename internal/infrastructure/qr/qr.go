package qr

import (
	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Generator renders tracking links as PNG QR codes.
type Generator struct {
	size int
}

// NewGenerator creates a Generator with the default image size.
func NewGenerator() *Generator {
	return &Generator{size: defaultSize}
}

// EncodePNG returns a PNG image encoding the given content.
func (g *Generator) EncodePNG(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, g.size)
}

package llm

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/jislas1039-svg/higher-self/internal/shared"
)

var (
	// ErrUnsupported is returned when a backend cannot serve a request
	// shape, such as image input or output on a text-only provider.
	ErrUnsupported = errors.New("request not supported by this backend")
	// ErrNoContent is returned when the model answered with nothing usable.
	ErrNoContent = errors.New("no content generated")
)

// Attachment is binary input sent next to the prompt.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Request is one call against the generative service.
type Request struct {
	// Model overrides the backend default when set.
	Model  string
	Prompt string
	// Attachment is optional.
	Attachment *Attachment
	// Schema, when set, asks for JSON output matching it.
	Schema *Schema
	// ThinkingBudget is the deliberation budget in tokens. Zero asks for the
	// fastest answer; a negative value leaves it to the model.
	ThinkingBudget int
	Temperature    *float32
	// WantImage asks for image parts in the response.
	WantImage bool
}

// Image is an inline image part of a response.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURI renders the image as a data: URI.
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Response contains the generated text, any images and token usage.
type Response struct {
	Text   string
	Images []Image
	Usage  shared.TokenUsage
}

// Generator produces content for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Client is a Generator holding resources.
type Client interface {
	Generator
	Closer
}

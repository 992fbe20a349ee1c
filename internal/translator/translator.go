// Package translator wraps the managed machine-translation service.
package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"

	"github.com/gamevault/catalog-api/internal/chunker"
)

// TranslateAPI is the subset of the Translate client the wrapper uses.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// Translator translates text between language codes.
type Translator struct {
	client   TranslateAPI
	maxBytes int
}

// New creates a Translator over the given client.
func New(client TranslateAPI) *Translator {
	return &Translator{client: client, maxBytes: chunker.DefaultMaxBytes}
}

// NewFromConfig creates a Translator with a real Translate client.
func NewFromConfig(cfg aws.Config) *Translator {
	return New(translate.NewFromConfig(cfg))
}

// Translate converts text from the source to the target language code.
// Text over the provider's document limit is split into segments,
// translated sequentially, and rejoined.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	segments := chunker.Split(text, t.maxBytes)
	if len(segments) == 0 {
		segments = []string{text}
	}

	var out strings.Builder
	for _, segment := range segments {
		result, err := t.client.TranslateText(ctx, &translate.TranslateTextInput{
			Text:               aws.String(segment),
			SourceLanguageCode: aws.String(sourceLang),
			TargetLanguageCode: aws.String(targetLang),
		})
		if err != nil {
			return "", fmt.Errorf("translating text: %w", err)
		}
		out.WriteString(aws.ToString(result.TranslatedText))
	}
	return out.String(), nil
}

package payload

import (
	"fmt"
	"strings"

	"fermentation_logger/internal/models"
)

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenDirective
)

type token struct {
	kind tokenKind
	text string // literal text
	verb byte   // directive verb
}

// tokenize splits a template into literal runs and directives.
// "%%" folds into the surrounding literal; an unknown verb or a trailing '%' fails.
func tokenize(template string) ([]token, error) {
	var (
		tokens  []token
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch != '%' {
			literal.WriteByte(ch)
			continue
		}
		i++
		if i >= len(template) {
			return nil, fmt.Errorf("%w: dangling %% at offset %d", ErrInvalidFormat, i-1)
		}
		verb := template[i]
		if verb == '%' {
			literal.WriteByte('%')
			continue
		}
		if _, ok := directives[verb]; !ok {
			return nil, fmt.Errorf("%w: unknown directive %%%c at offset %d", ErrInvalidFormat, verb, i-1)
		}
		flush()
		tokens = append(tokens, token{kind: tokenDirective, verb: verb})
	}
	flush()
	return tokens, nil
}

// TemplateOptions tunes Render. Zero values fall back to the defaults.
type TemplateOptions struct {
	NullLiteral string
	Capacity    int
}

// Render expands template against the snapshot.
// It either returns the complete payload or an error wrapping ErrInvalidFormat,
// ErrBufferOverflow or ErrNonFinite, never a partial result.
func Render(template string, s models.Snapshot, opts TemplateOptions) ([]byte, error) {
	if len(template) > models.MaxTemplateBytes {
		return nil, fmt.Errorf("%w: template is %d bytes (max %d)", ErrInvalidFormat, len(template), models.MaxTemplateBytes)
	}
	if opts.NullLiteral == "" {
		opts.NullLiteral = models.DefaultNullLiteral
	}
	if opts.Capacity <= 0 {
		opts.Capacity = models.MaxPayloadBytes
	}

	tokens, err := tokenize(template)
	if err != nil {
		return nil, err
	}

	buf := NewBuffer(opts.Capacity)
	for _, tok := range tokens {
		text := tok.text
		if tok.kind == tokenDirective {
			if text, err = directives[tok.verb].render(s, opts.NullLiteral); err != nil {
				return nil, err
			}
		}
		if err := buf.WriteString(text); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// ValidateTemplate checks a template without rendering it.
func ValidateTemplate(template string) error {
	if len(template) > models.MaxTemplateBytes {
		return fmt.Errorf("%w: template is %d bytes (max %d)", ErrInvalidFormat, len(template), models.MaxTemplateBytes)
	}
	_, err := tokenize(template)
	return err
}

package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askline/askline"
	"github.com/askline/askline/convert"
	"github.com/askline/askline/translate"
)

// Answer is the result of one answered field.
type Answer struct {
	Name     string
	Label    string
	Type     string
	Value    any
	Text     string
	Secret   bool
	Attempts int
}

// Run validates the form and answers every field in order on the given
// reader. Each field goes through the validated prompt loop: empty input
// takes the field's default, required fields refuse to stay empty, option
// lists restrict the accepted text, and invalid input is diagnosed and asked
// again. Secret fields read without echo when the source supports it.
//
// On a fatal prompt error the answers collected so far are returned together
// with the error.
func (f *Form) Run(r *askline.Reader, reg *convert.Registry) ([]Answer, error) {
	return f.runFields(context.Background(), r, reg, false)
}

// RunContext is Run with every read step awaiting ctx.
func (f *Form) RunContext(ctx context.Context, r *askline.Reader, reg *convert.Registry) ([]Answer, error) {
	return f.runFields(ctx, r, reg, true)
}

func (f *Form) runFields(ctx context.Context, r *askline.Reader, reg *convert.Registry, useCtx bool) ([]Answer, error) {
	if err := f.Validate(reg); err != nil {
		return nil, err
	}

	answers := make([]Answer, 0, len(f.Fields))
	for _, fld := range f.Fields {
		// Validate already resolved every field type.
		parse, _ := reg.Lookup(fld.typeName())

		attempts := 0
		finalText := ""
		wrapped := func(text string) (any, error) {
			attempts++
			if text == "" && fld.Default != "" {
				text = fld.Default
			}
			if text == "" {
				if fld.Required {
					return nil, errors.New(translate.From("a value is required"))
				}
				// Optional field left unanswered.
				finalText = ""
				return nil, nil
			}
			if len(fld.Options) > 0 && !containsOption(fld.Options, text) {
				return nil, errors.New(translate.From("must be one of: %s", strings.Join(fld.Options, ", ")))
			}

			value, err := parse(text)
			if err != nil {
				return nil, err
			}
			finalText = text
			return value, nil
		}

		reader := r
		if fld.Secret {
			reader = secretReader(r)
		}

		var (
			value any
			err   error
		)
		if useCtx {
			value, err = askline.ReadAsContext(ctx, reader, fld.displayLabel(), fld.typeName(), wrapped)
		} else {
			value, err = askline.ReadAs(reader, fld.displayLabel(), fld.typeName(), wrapped)
		}
		if reader != r {
			// The secret wrapper owns a background reader once a
			// context-aware read ran; shut it down with the field.
			reader.Close()
		}
		if err != nil {
			return answers, fmt.Errorf("field %s: %w", fld.Name, err)
		}

		answers = append(answers, Answer{
			Name:     fld.Name,
			Label:    fld.displayLabel(),
			Type:     fld.typeName(),
			Value:    value,
			Text:     finalText,
			Secret:   fld.Secret,
			Attempts: attempts,
		})
	}

	return answers, nil
}

func containsOption(options []string, text string) bool {
	for _, opt := range options {
		if opt == text {
			return true
		}
	}
	return false
}

// secretReader returns a reader whose read step uses the source's no-echo
// secret read. Sources that cannot suppress echo are used as-is.
func secretReader(r *askline.Reader) *askline.Reader {
	ss, ok := r.Source().(askline.SecretSource)
	if !ok {
		return r
	}

	var src askline.Source = &secretSource{inner: ss}
	if ps, ok := r.Source().(askline.PromptSource); ok {
		src = &secretPromptSource{secretSource{inner: ss}, ps}
	}

	sr := askline.NewReader(src, r.Sink())
	sr.SetObserver(r.Observer())
	return sr
}

type secretSource struct {
	inner askline.SecretSource
}

func (s *secretSource) ReadLine() (string, error) {
	return s.inner.ReadSecret()
}

// secretPromptSource keeps the prompt on the source for terminals that render
// it themselves even while echo is off.
type secretPromptSource struct {
	secretSource
	prompts askline.PromptSource
}

func (s *secretPromptSource) SetPrompt(prompt string) {
	s.prompts.SetPrompt(prompt)
}

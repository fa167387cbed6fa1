package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/shopspring/decimal"
)

// ErrInputClosed is returned when input ends before an answer is given.
var ErrInputClosed = errors.New("input terminated")

// Prompter asks questions on a terminal for interactive commands.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading answers from reader.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{reader: NewLineReader(reader), writer: writer}
}

func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputClosed
	}
	return line, err
}

func (p *Prompter) complain(msg string) {
	_, _ = fmt.Fprintln(p.writer, FormatError(msg))
}

// Ask returns the answer to label, or def when the answer is blank.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	answer, err := p.readLine(ctx, prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskRequired asks until a non-blank answer is given.
func (p *Prompter) AskRequired(ctx context.Context, label string) (string, error) {
	for {
		answer, err := p.readLine(ctx, label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		p.complain(label + " cannot be empty. Please try again.")
	}
}

// Choose asks until the answer matches one of choices, ignoring case, and
// returns the matching choice as written in choices.
func (p *Prompter) Choose(ctx context.Context, label string, choices []string, def string) (string, error) {
	prompt := fmt.Sprintf("%s (%s)", label, strings.Join(choices, "/"))
	for {
		answer, err := p.Ask(ctx, prompt, def)
		if err != nil {
			return "", err
		}
		for _, c := range choices {
			if strings.EqualFold(c, answer) {
				return c, nil
			}
		}
		p.complain("Invalid choice. Please try again.")
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		answer, err := p.readLine(ctx, fmt.Sprintf("%s [%s]", question, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.complain("Please answer y or n.")
	}
}

// AskAmount asks until a positive decimal amount is given.
func (p *Prompter) AskAmount(ctx context.Context, label string) (decimal.Decimal, error) {
	for {
		answer, err := p.AskRequired(ctx, label)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(strings.TrimPrefix(answer, "$"))
		if err == nil && amount.IsPositive() {
			return amount, nil
		}
		p.complain("Amount must be a positive number.")
	}
}

// AskCategory asks for a category. An unknown answer close to an existing
// category offers the existing one instead.
func (p *Prompter) AskCategory(ctx context.Context, categories []string) (string, error) {
	known := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != ledger.All {
			known = append(known, c)
		}
	}
	if len(known) > 0 {
		_, _ = fmt.Fprintln(p.writer, FormatInfo("Known categories: "+strings.Join(known, ", ")))
	}

	answer, err := p.AskRequired(ctx, "Category")
	if err != nil {
		return "", err
	}
	for _, c := range known {
		if c == answer {
			return c, nil
		}
	}

	suggestion, ok := ledger.Suggest(known, answer)
	if !ok {
		return answer, nil
	}
	useSuggestion, err := p.Confirm(ctx, fmt.Sprintf("Did you mean %q?", suggestion), true)
	if err != nil {
		return "", err
	}
	if useSuggestion {
		return suggestion, nil
	}
	return answer, nil
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter asks for interactive user input on the terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer

	// readSecret is swappable for tests; the default reads from the
	// terminal without echoing.
	readSecret func() (string, error)
}

func newPrompter() *prompter {
	return &prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
		readSecret: func() (string, error) {
			data, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	}
}

// Input asks a question and returns the trimmed answer, or the default when
// the answer is empty.
func (p *prompter) Input(question, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// Secret asks for a secret without echoing it.
func (p *prompter) Secret(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	secret, err := p.readSecret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(secret), nil
}

// ValidatedInput asks until the answer passes the validate callback,
// printing errMsg between attempts.
func (p *prompter) ValidatedInput(question, defaultValue string, validate func(string) bool, errMsg string) (string, error) {
	for {
		val, err := p.Input(question, defaultValue)
		if err != nil {
			return "", err
		}
		if validate == nil || validate(val) {
			return val, nil
		}
		fmt.Fprintln(p.out, errMsg)
	}
}

// ValidatedSecret asks for a hidden value until it matches the validate
// callback.
func (p *prompter) ValidatedSecret(question string, validate func(string) bool, errMsg string) (string, error) {
	for {
		val, err := p.Secret(question)
		if err != nil {
			return "", err
		}
		if validate == nil || validate(val) {
			return val, nil
		}
		fmt.Fprintln(p.out, errMsg)
	}
}

// Choice asks until the answer is one of the options. An empty answer picks
// the default when one is given.
func (p *prompter) Choice(question string, options []string, defaultValue string) (string, error) {
	question = fmt.Sprintf("%s\n[%s]", question, strings.Join(options, "|"))
	for {
		val, err := p.Input(question, defaultValue)
		if err != nil {
			return "", err
		}
		for _, opt := range options {
			if val == opt {
				return val, nil
			}
		}
		fmt.Fprintln(p.out, "Please choose a valid option and try again.")
	}
}

// Confirm asks a yes/no question.
func (p *prompter) Confirm(question string) (bool, error) {
	val, err := p.Input(question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	val = strings.ToLower(val)
	return val == "y" || val == "yes", nil
}

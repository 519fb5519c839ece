package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"drivepulse/internal/model"
)

// passwordEnv lets scripts supply the snapshot password without a prompt.
const passwordEnv = "PULSE_PASSWORD"

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// getPassword returns PULSE_PASSWORD when set, otherwise prompts on the
// terminal without echo. confirm asks twice and requires both to match.
func getPassword(w io.Writer, prompt string, confirm bool) (string, error) {
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no terminal to prompt for a password; set %s", passwordEnv)
	}

	pw, err := promptOnce(w, prompt)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", fmt.Errorf("empty password")
	}
	if confirm {
		again, err := promptOnce(w, "Confirm password: ")
		if err != nil {
			return "", err
		}
		if again != pw {
			return "", fmt.Errorf("passwords do not match")
		}
	}
	return pw, nil
}

func promptOnce(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// snapshotPasswords asks for each snapshot's password at most once per
// command. Snapshots listed as plain need none. Ids missing from the
// listing may be sealed bodies whose summary was lost, so they are asked
// for too.
type snapshotPasswords struct {
	list   func() ([]model.SnapshotSummary, error)
	prompt func(id string) (string, error)

	encrypted map[string]bool
	known     map[string]string
}

func newSnapshotPasswords(list func() ([]model.SnapshotSummary, error), w io.Writer) *snapshotPasswords {
	return &snapshotPasswords{
		list: list,
		prompt: func(id string) (string, error) {
			return getPassword(w, fmt.Sprintf("Password for %s: ", id), false)
		},
	}
}

func (p *snapshotPasswords) get(id string) (string, error) {
	if pw, ok := p.known[id]; ok {
		return pw, nil
	}
	if p.encrypted == nil {
		summaries, err := p.list()
		if err != nil {
			return "", err
		}
		p.encrypted = make(map[string]bool, len(summaries))
		for _, s := range summaries {
			p.encrypted[s.ID] = s.Encrypted
		}
		p.known = make(map[string]string)
	}

	encrypted, listed := p.encrypted[id]
	if listed && !encrypted {
		return "", nil
	}

	pw, err := p.prompt(id)
	if err != nil {
		if listed {
			return "", err
		}
		// Let loading report why an unlisted id cannot be read.
		pw = ""
	}
	p.known[id] = pw
	return pw, nil
}

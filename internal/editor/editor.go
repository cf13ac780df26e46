// Package editor round-trips an event through the user's $EDITOR as a small
// header block followed by free-form notes.
package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	TitlePrefix = "Title: "
	AtPrefix    = "At: "
	ColorPrefix = "Color: "
)

// Draft is the editable part of an event.
type Draft struct {
	Title string
	At    string
	Color string
	Notes string
}

// ComposeContent creates the text presented to the editor.
func ComposeContent(d Draft) string {
	var b bytes.Buffer
	b.WriteString("# calpad event\n")
	b.WriteString("# Lines starting with '#' are ignored.\n")
	b.WriteString("# At is \"YYYY-MM-DD HH:MM\"; the duration is kept. After '---', write notes.\n")
	b.WriteString(TitlePrefix + d.Title + "\n")
	b.WriteString(AtPrefix + d.At + "\n")
	b.WriteString(ColorPrefix + d.Color + "\n")
	b.WriteString("---\n")
	if d.Notes != "" {
		notes := d.Notes
		if !strings.HasSuffix(notes, "\n") {
			notes += "\n"
		}
		b.WriteString(notes)
	}
	return b.String()
}

// ParseEdited extracts the header fields and notes from the editor output.
func ParseEdited(s string) Draft {
	var d Draft
	inBody := false
	var bodyLines []string
	for _, line := range strings.Split(s, "\n") {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, strings.TrimSpace(TitlePrefix)):
			d.Title = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(TitlePrefix)))
		case strings.HasPrefix(line, strings.TrimSpace(AtPrefix)):
			d.At = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(AtPrefix)))
		case strings.HasPrefix(line, strings.TrimSpace(ColorPrefix)):
			d.Color = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(ColorPrefix)))
		case strings.TrimSpace(line) == "---":
			inBody = true
		}
	}
	d.Notes = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	return d
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForID returns a temp file path for an event id.
func PathForID(id string) (string, error) {
	name := sanitize(id) + ".calpad.txt"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "calpad", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "calpad", "edit", name), nil
}

func sanitize(id string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

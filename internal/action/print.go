package action

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"text/template"
	"time"

	"github.com/dshills/wordevent/internal/word"
)

const defaultMessage = "{{.Word}}"

// Data is the template data for print messages.
type Data struct {
	ID      string
	Word    string
	Keys    []string
	Matcher string
	Time    time.Time
}

func newData(m word.Match) Data {
	keys := make([]string, len(m.Events))
	for i, evt := range m.Events {
		keys[i] = evt.String()
	}
	return Data{
		ID:      m.ID,
		Word:    m.Word,
		Keys:    keys,
		Matcher: m.Matcher.String(),
		Time:    m.CompletedAt,
	}
}

// Print writes a rendered line for each match.
type Print struct {
	tmpl *template.Template
	out  io.Writer
	mu   *sync.Mutex
}

func newPrint(message string, o options) (*Print, error) {
	if message == "" {
		message = defaultMessage
	}
	tmpl, err := template.New("message").Option("missingkey=error").Parse(message)
	if err != nil {
		return nil, err
	}
	return &Print{tmpl: tmpl, out: o.out, mu: o.outMu}, nil
}

// Run renders the message for m and writes it as one line.
func (p *Print) Run(m word.Match) error {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, newData(m)); err != nil {
		return fmt.Errorf("rendering message: %w", err)
	}
	buf.WriteByte('\n')

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.out.Write(buf.Bytes())
	return err
}

// Close does nothing.
func (p *Print) Close() error {
	return nil
}

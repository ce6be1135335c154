package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/loykin/graphcall"
	"github.com/tidwall/pretty"
)

// Printer writes call results.
type Printer struct {
	Out   io.Writer
	Color bool
	// Raw disables indentation.
	Raw bool
}

// Print writes v followed by a newline.
func (p Printer) Print(v any) error {
	switch t := v.(type) {
	case *graphcall.Response:
		return p.printResponse(t)
	case string:
		// Field components such as "body" come back unparsed.
		if json.Valid([]byte(t)) {
			return p.writeJSON([]byte(t))
		}
		_, err := fmt.Fprintln(p.Out, t)
		return err
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return p.writeJSON(b)
	}
}

func (p Printer) printResponse(r *graphcall.Response) error {
	if _, err := fmt.Fprintf(p.Out, "HTTP %d %s\n", r.Status, http.StatusText(r.Status)); err != nil {
		return err
	}
	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(p.Out, "%s: %s\n", k, strings.Join(r.Headers[k], ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(p.Out); err != nil {
		return err
	}
	if strings.TrimSpace(r.Body) == "" {
		return nil
	}
	return p.Print(r.Body)
}

func (p Printer) writeJSON(b []byte) error {
	if p.Raw {
		b = pretty.Ugly(b)
	} else {
		b = pretty.Pretty(b)
	}
	if p.Color {
		b = pretty.Color(b, nil)
	}
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	_, err := p.Out.Write(b)
	return err
}

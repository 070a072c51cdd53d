package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/DripjobsJeremy/workorders/internal/cli/formatter"
	"github.com/DripjobsJeremy/workorders/internal/session"
)

// runPlain loads the document and prints it once. Used for --plain and
// whenever stdout is not a terminal.
func runPlain(w io.Writer, sess *session.Session) error {
	eff := sess.Load()
	for _, p := range eff.Pending {
		out := p.Do(context.Background())
		if err := out.Err(); err != nil {
			return err
		}
		sess.Resolve(out)
	}
	doc := sess.Document()
	if doc == nil {
		return fmt.Errorf("work order could not be loaded")
	}
	_, err := fmt.Fprint(w, formatter.Document(doc))
	return err
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"record-attachments/internal/attachments"
)

type presenter struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

func newPresenter(out io.Writer, verbose bool) *presenter {
	return &presenter{out: out, verbose: verbose}
}

func (p *presenter) SetBusy(busy bool) {
	if !p.verbose {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if busy {
		fmt.Fprintln(p.out, "... working")
	} else {
		fmt.Fprintln(p.out, "... done")
	}
}

func (p *presenter) Notify(n attachments.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tag := "ok"
	if n.Severity == attachments.SeverityError {
		tag = "error"
	}
	fmt.Fprintf(p.out, "[%s] %s\n", tag, n.Message)
}

// promptConfirmer asks on out and reads a y/N answer from in.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, _ := c.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printDocuments(out io.Writer, docs []attachments.Document, types []attachments.DocumentType) {
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tUPLOADED")
	for _, d := range docs {
		typeName := fmt.Sprintf("#%d", d.TypeID)
		if t := attachments.FindType(types, d.TypeID); t != nil {
			typeName = t.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, typeName, d.UploadedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printTypes(out io.Writer, types []attachments.DocumentType, selected int64) {
	if len(types) == 0 {
		fmt.Fprintln(out, "No document types.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEXTENSIONS")
	for _, t := range types {
		marker := ""
		if t.ID == selected {
			marker = " *"
		}
		fmt.Fprintf(tw, "%d\t%s%s\t%s\n", t.ID, t.Name, marker, attachments.FormatAllowlist(t.AllowedExtensions))
	}
	tw.Flush()
}

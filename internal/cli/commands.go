package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"record-attachments/internal/attachments"
)

func newTypesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List document types and their allowed extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := o.backend()
			if err != nil {
				return err
			}
			reg := &attachments.Registry{Backend: backend}
			types, err := reg.List(cmd.Context())
			if err != nil {
				return err
			}
			printTypes(o.out, types, attachments.ResolveSelection(types, attachments.NoType))
			return nil
		},
	}
}

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the owner's documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.screen(cmd.Context(), nil)
			if err != nil {
				return err
			}
			st := s.State()
			printDocuments(o.out, st.Documents, st.Types)
			return nil
		},
	}
}

func newUploadCmd(o *options) *cobra.Command {
	var typeID int64
	cmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Validate and upload files one after another",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.screen(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("type") {
				if err := s.SelectType(typeID); err != nil {
					return err
				}
			}

			candidates, missing := o.candidates(args)
			res, err := s.Upload(cmd.Context(), candidates)
			if err != nil {
				return err
			}
			return o.summarize(s, res, missing)
		},
	}
	cmd.Flags().Int64Var(&typeID, "type", 0, "Document type id (defaults to the first type; 0 selects none)")
	return cmd
}

func newDeleteCmd(o *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <documentId>",
		Short: "Delete a document after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer attachments.Confirmer = newPromptConfirmer(o.in, o.out)
			if yes {
				confirmer = attachments.ConfirmFunc(func(string) bool { return true })
			}
			s, err := o.screen(cmd.Context(), confirmer)
			if err != nil {
				return err
			}
			deleted, err := s.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(o.out, "Cancelled.")
				return nil
			}
			st := s.State()
			printDocuments(o.out, st.Documents, st.Types)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func newDropCmd(o *options) *cobra.Command {
	var typeID int64
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Replay drag-and-drop events read from stdin",
		Long: `Reads one drag event per line from stdin:

  enter
  over
  leave
  drop <path> [path...]

Each drop becomes an upload batch. Lines starting with # are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.screen(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("type") {
				if err := s.SelectType(typeID); err != nil {
					return err
				}
			}
			return o.replay(cmd.Context(), s)
		},
	}
	cmd.Flags().Int64Var(&typeID, "type", 0, "Document type id (defaults to the first type; 0 selects none)")
	return cmd
}

// candidates stats each path; unreadable paths are reported and counted as failures.
func (o *options) candidates(paths []string) ([]attachments.Candidate, int) {
	out := make([]attachments.Candidate, 0, len(paths))
	missing := 0
	for _, p := range paths {
		f, err := attachments.OpenLocalFile(p)
		if err != nil {
			fmt.Fprintf(o.out, "[error] %s: %v\n", p, err)
			missing++
			continue
		}
		out = append(out, attachments.NewCandidate(f))
	}
	return out, missing
}

func (o *options) handles(paths []string) ([]attachments.FileHandle, int) {
	cands, missing := o.candidates(paths)
	out := make([]attachments.FileHandle, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.File)
	}
	return out, missing
}

func (o *options) summarize(s *attachments.Screen, res attachments.BatchResult, missing int) error {
	failed := res.Failed() + missing
	fmt.Fprintf(o.out, "%d uploaded, %d failed\n", res.Uploaded(), failed)
	st := s.State()
	printDocuments(o.out, st.Documents, st.Types)
	if failed > 0 {
		return ErrFilesFailed
	}
	return nil
}

func (o *options) replay(ctx context.Context, s *attachments.Screen) error {
	scanner := bufio.NewScanner(o.in)
	failed := 0
	last := s.State().Drag
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		ev := &attachments.DragEvent{Type: eventType(fields[0])}
		missing := 0
		if ev.Type == attachments.EventDrop {
			ev.Files, missing = o.handles(fields[1:])
		}

		res, err := s.HandleDrag(ctx, ev)
		if err != nil {
			if errors.Is(err, attachments.ErrBatchInProgress) {
				continue
			}
			return err
		}
		if st := s.State().Drag; st != last {
			fmt.Fprintf(o.out, "drag: %s\n", st)
			last = st
		}
		if !ev.DefaultPrevented() {
			fmt.Fprintf(o.err, "ignoring unknown event %q\n", fields[0])
		}
		if res != nil || missing > 0 {
			batch := attachments.BatchResult{}
			if res != nil {
				batch = *res
			}
			fmt.Fprintf(o.out, "%d uploaded, %d failed\n", batch.Uploaded(), batch.Failed()+missing)
			failed += batch.Failed() + missing
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	st := s.State()
	printDocuments(o.out, st.Documents, st.Types)
	if failed > 0 {
		return ErrFilesFailed
	}
	return nil
}

func eventType(word string) attachments.EventType {
	switch strings.ToLower(word) {
	case "enter", "dragenter":
		return attachments.EventDragEnter
	case "over", "dragover":
		return attachments.EventDragOver
	case "leave", "dragleave":
		return attachments.EventDragLeave
	case "drop":
		return attachments.EventDrop
	default:
		return attachments.EventType(word)
	}
}

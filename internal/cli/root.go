// Package cli implements the attach command: a terminal front end for the
// document attachment pipeline that talks to the documents REST API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"record-attachments/internal/attachments"
	"record-attachments/internal/client"
	"record-attachments/internal/shared/config"
)

// ErrFilesFailed makes the process exit non-zero when any file in a batch did not upload.
var ErrFilesFailed = errors.New("one or more files failed")

type options struct {
	apiURL  string
	token   string
	timeout time.Duration
	ownerID string
	verbose bool

	in  io.Reader
	out io.Writer
	err io.Writer
}

// NewRootCmd builds the command tree. Defaults come from cfg; flags override them.
func NewRootCmd(cfg config.ClientConfig, in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &options{in: in, out: out, err: errOut}

	root := &cobra.Command{
		Use:   "attach",
		Short: "Attach documents to a record",
		Long: `Upload, list and delete documents attached to an owning record.

Files are checked against the selected document type's extension allowlist
and the 10 MB limit before anything is sent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", cfg.APIURL, "Documents API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", cfg.Token, "Bearer token for the documents API")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	root.PersistentFlags().StringVar(&opts.ownerID, "owner", cfg.OwnerID, "Owning record id")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show busy indicator changes")

	root.AddCommand(newTypesCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newUploadCmd(opts))
	root.AddCommand(newDeleteCmd(opts))
	root.AddCommand(newDropCmd(opts))
	return root
}

func (o *options) backend() (*client.Client, error) {
	return client.New(o.apiURL, client.Options{Token: o.token, Timeout: o.timeout})
}

// screen builds and activates a Screen for the owner flag.
func (o *options) screen(ctx context.Context, confirmer attachments.Confirmer) (*attachments.Screen, error) {
	if strings.TrimSpace(o.ownerID) == "" {
		return nil, fmt.Errorf("--owner is required (or set ATTACH_OWNER_ID)")
	}
	backend, err := o.backend()
	if err != nil {
		return nil, err
	}
	s := attachments.NewScreen(backend, newPresenter(o.out, o.verbose), confirmer)
	if err := s.Activate(ctx, o.ownerID); err != nil {
		return nil, err
	}
	return s, nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// usageError marks bad flags or arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// systemError marks failures of the local environment: config files,
// directories, and storage.
type systemError struct{ err error }

func (e systemError) Error() string { return e.err.Error() }
func (e systemError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit code. Local environment and
// network failures are system errors; everything else, including guard
// redirects and server rejections, is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var sys systemError
	if errors.As(err, &sys) {
		return exitSysError
	}
	var transport *types.TransportError
	if errors.As(err, &transport) {
		return exitSysError
	}
	return exitUserError
}

// alreadyNotified reports whether err came out of the request pipeline,
// whose notify stage has already printed it.
func alreadyNotified(err error) bool {
	var transport *types.TransportError
	var server *types.ServerError
	return errors.As(err, &transport) || errors.As(err, &server)
}

// emit writes v as indented JSON in --json mode, and calls text otherwise.
func (a *app) emit(v any, text func(w io.Writer) error) error {
	if a.flags.jsonMode {
		return writeJSON(a.stdout, v)
	}
	return text(a.stdout)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// writeTable prints a header and rows aligned in columns.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow(tw, header)
	for _, row := range rows {
		writeRow(tw, row)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cols []string) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

// ackText prints the server's acknowledgement, or fallback when the server
// sent none.
func ackText(ack types.Ack, fallback string) func(io.Writer) error {
	return func(w io.Writer) error {
		msg := ack.Message
		if msg == "" {
			msg = fallback
		}
		if id := firstID(ack.ID, ack.ProductID, ack.OrderID); id != "" {
			_, err := fmt.Fprintf(w, "%s (id %s)\n", msg, id)
			return err
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}
}

func firstID(ids ...types.ID) string {
	for _, id := range ids {
		if id != "" {
			return id.String()
		}
	}
	return ""
}

func price(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
)

// Exit codes. ExitFault exists for documentation/testing purposes only: an
// unmanaged fault (lazycopy.errors.go's unmanagedFault) terminates the
// process with SIGKILL directly and never reaches an os.Exit call, so no
// code path in this package actually returns ExitFault.
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitFault   = 2
)

var (
	flagJSON    bool
	flagQuiet   bool
	flagVerbose bool
)

// SetFlags is called by the root command's PersistentPreRunE to propagate
// flag values to the rest of the CLI.
func SetFlags(jsonMode, quiet, verbose bool) {
	flagJSON = jsonMode
	flagQuiet = quiet
	flagVerbose = verbose
}

// IsJSON returns true when --json mode is active.
func IsJSON() bool { return flagJSON }

// IsQuiet returns true when --quiet mode is active.
func IsQuiet() bool { return flagQuiet }

// IsVerbose returns true when --verbose mode is active.
func IsVerbose() bool { return flagVerbose }

// PrintJSON marshals v as JSON and writes it to w.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintError writes a JSON error envelope to w.
func PrintError(w io.Writer, code string, message string) error {
	return PrintJSON(w, map[string]string{
		"error":   code,
		"message": message,
	})
}

// PrintStats renders a lazycopy.Stats snapshot, respecting --json/--quiet.
// In text mode it adds the derived Pressure() bucket (internal/lazycopy's
// api.go) next to the raw counts, since "3 of 50 slots used" and "3 of 4
// slots used" read identically as bare numbers but mean very different
// things for how soon the next insert forces a flush.
func PrintStats(w io.Writer, stats lazycopy.Stats) error {
	if flagJSON {
		return PrintJSON(w, struct {
			InUse    int    `json:"in_use"`
			Capacity int    `json:"capacity"`
			ChainLen int    `json:"chain_len"`
			Pressure string `json:"pressure"`
		}{stats.InUse, stats.Capacity, stats.ChainLen, stats.Pressure().String()})
		return nil
	}
	if flagQuiet {
		return nil
	}
	_, err := fmt.Fprintf(w, "pool: %d/%d in use, chain length %d, pressure %s\n",
		stats.InUse, stats.Capacity, stats.ChainLen, stats.Pressure())
	return err
}

// ExitCodeForError maps an error returned from the lazycopy package (or
// internal/config) to a process exit code. A bare exit-1-on-any-error CLI
// can't distinguish "you forgot to call demo/watch first" from "your
// mprotect call was rejected by the kernel" from "your arena/offset
// arithmetic is wrong" when scripted against --quiet; this gives each its
// own code so callers can branch without scraping stderr text.
const (
	ExitNotInitialized = 10
	ExitOutOfBounds    = 11
	ExitProtectionCall = 12
)

func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var protErr *lazycopy.ProtectionCallFailure
	switch {
	case errors.Is(err, lazycopy.ErrNotInitialized):
		return ExitNotInitialized
	case errors.Is(err, lazycopy.ErrOutOfBounds):
		return ExitOutOfBounds
	case errors.As(err, &protErr):
		return ExitProtectionCall
	default:
		return ExitError
	}
}

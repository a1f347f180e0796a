package batch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsafeFileName rejects card names that would not be a flat archive entry.
var ErrUnsafeFileName = errors.New("card file name contains a path separator")

// CardFileName derives the archive entry name for a card. Only spaces are
// replaced; every other character of name and id is kept as given.
func CardFileName(name, id string) string {
	return strings.ReplaceAll(name, " ", "_") + "_" + id + ".png"
}

// ProfileURL appends username to baseURL without escaping or validation.
func ProfileURL(baseURL, username string) string {
	return baseURL + username
}

// checkFileName keeps every derived name a single path element, so the
// archive holds exactly one entry per name.
func checkFileName(name string) error {
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrUnsafeFileName, name)
	}
	return nil
}

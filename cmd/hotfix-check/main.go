// Command hotfix-check validates the hotfix files of a snapshot directory
// before deploy.
//
// Usage:
//
//	go run ./cmd/hotfix-check <snapshot-dir>
//
// It parses hotfixes_deletes.txt and hotfixes_boosts.txt the same way the
// serving store does and reports what the overlay would contain. A
// malformed line fails the check with a non-zero exit.
package main

import (
	"fmt"
	"os"

	"github.com/andreiashu/geostore"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hotfix-check <snapshot-dir>")
		os.Exit(2)
	}

	overlay, err := geostore.LoadHotfixes(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("hotfix overlay OK: %d deletes, %d boosts\n",
		len(overlay.Deletes), len(overlay.Boosts))
}

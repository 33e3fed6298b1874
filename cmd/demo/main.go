// Demo seeds an in-memory history and prints how the store's policies play
// out, without touching the real clipboard, keychain, or disk.
package main

import (
	"fmt"
	"log"

	"github.com/clipvault/clipvault/internal/history"
)

func main() {
	fmt.Println("clipvault history store demo")

	store := history.NewStore(4)

	changes := 0
	store.OnChange(func() { changes++ })

	samples := []string{
		"Hello, World! This is the first captured snippet.",
		"SELECT * FROM users WHERE created_at > '2026-01-01' LIMIT 10;",
		"   whitespace    gets   collapsed   ",
		"Hello, World! This is the first captured snippet.", // reappears: promoted, not duplicated
		"ssh-keygen -t ed25519 -C demo@example.com",
		"curl -fsSL https://example.com/install.sh | sh",
		"echo overflow-the-capacity",
	}

	fmt.Println("\nCapturing snippets:")
	for _, text := range samples {
		if !store.AddItem(text) {
			log.Printf("rejected: %q", text)
			continue
		}
		fmt.Printf("  + %.60q\n", text)
	}

	// Pin the oldest survivor so eviction can't touch it.
	snap := store.Snapshot()
	oldest := snap.Entries[len(snap.Entries)-1]
	store.TogglePin(oldest.ID)
	fmt.Printf("\nPinned: %.60q\n", oldest.Text)

	store.AddItem("one more to push the non-pinned tail out")

	fmt.Printf("\nFinal history (capacity 4, %d change signals):\n", changes)
	for i, e := range store.Snapshot().Entries {
		marker := " "
		if e.Pinned {
			marker = "*"
		}
		fmt.Printf("%3d %s %.60q\n", i, marker, e.Text)
	}
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vaultsync/internal/vault"
)

// List prints the item titles in collection order, marking the selection.
func (a *App) List(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	items := a.session.Items()
	if len(items) == 0 {
		printlnFn("(empty)")
		return nil
	}
	active := a.session.Active()
	for _, it := range items {
		marker := "  "
		if it.Title == active {
			marker = "* "
		}
		printlnFn(fmt.Sprintf("%s%-30s %s", marker, it.Title, it.Kind))
	}
	return nil
}

// Show selects an item and prints its decrypted body.
func (a *App) Show(ctx context.Context, title string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.session.Select(title); err != nil {
		return err
	}
	it, _ := a.session.Get(title)
	printlnFn(fmt.Sprintf("--- %s (%s) ---", it.Title, it.Kind))
	printlnFn(it.Text)
	return nil
}

// New prompts for a title and kind, creates the item and selects it.
func (a *App) New(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	kindStr, err := GetSimpleText(a.reader, "Kind (note/snippet, default note)", os.Stdout)
	if err != nil {
		return err
	}
	kind := vault.KindNote
	if kindStr == string(vault.KindSnippet) {
		kind = vault.KindSnippet
	}
	if err := a.session.Create(ctx, title, kind); err != nil {
		printlnFn("Create failed:", err)
		return err
	}
	printlnFn("Created", title)
	return nil
}

// Edit replaces the body of an item. The sync engine picks the change up
// after the debounce window; no explicit save is needed.
func (a *App) Edit(ctx context.Context, title string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if _, ok := a.session.Get(title); !ok {
		return fmt.Errorf("no item %q", title)
	}
	text, err := GetMultiline(a.reader, "New content", os.Stdout)
	if err != nil {
		return err
	}
	return a.session.SetText(title, text)
}

// Rename moves an item to a new title.
func (a *App) Rename(ctx context.Context, oldTitle, newTitle string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.session.Rename(ctx, oldTitle, newTitle); err != nil {
		printlnFn("Rename failed:", err)
		return err
	}
	return nil
}

// Remove deletes an item everywhere.
func (a *App) Remove(ctx context.Context, title string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.session.Delete(ctx, title); err != nil {
		printlnFn("Delete failed:", err)
		return err
	}
	return nil
}

// Flush pushes all pending edits synchronously.
func (a *App) Flush(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.session.Flush(ctx); err != nil {
		printlnFn("Flush failed:", err)
		return err
	}
	printlnFn("All changes synced")
	return nil
}

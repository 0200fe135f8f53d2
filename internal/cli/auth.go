package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vaultsync/internal/common"
	"github.com/dmitrijs2005/vaultsync/internal/identity"
)

// Login verifies an access token, derives the owner identity from it and
// opens the personal vault. The encryption passphrase is optional; when
// skipped, item bodies are keyed on the scope identifier the way the hosted
// app does it.
func (a *App) Login(ctx context.Context) error {
	token, err := GetSimpleText(a.reader, "Paste access token", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.identity.SetToken(token); err != nil {
		printlnFn("Login failed:", err)
		return err
	}

	pw, err := GetPassword(a.reader, "Encryption passphrase (empty for default)", os.Stdout)
	if err != nil {
		return err
	}
	a.passphrase = string(pw)
	common.WipeBytes(pw)

	if err := a.openSession(ctx, ""); err != nil {
		printlnFn("Could not open vault:", err)
		a.identity.SignOut()
		a.passphrase = ""
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s", a.identity.Current().UserID))
	return nil
}

// Logout flushes pending edits, closes the session and forgets the
// identity and passphrase.
func (a *App) Logout(ctx context.Context) error {
	a.closeSession(ctx)
	a.identity.SignOut()
	a.passphrase = ""
	printlnFn("Logged out")
	return nil
}

// requireSession guards commands that need an open vault.
func (a *App) requireSession() error {
	if a.session == nil {
		if a.identity.Current().Status != identity.StatusAuthenticated {
			return fmt.Errorf("not logged in")
		}
		return fmt.Errorf("no vault open")
	}
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/techurbanist/duread/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SaveKey asks for the API key and a passphrase, both without echo, and
// stores the key encrypted.
func (a *App) SaveKey(ctx context.Context) error {
	key, err := getPassword(a.out, "API key: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	pass, err := getPassword(a.out, fmt.Sprintf("Passphrase (at least %d characters): ", common.MinPassphraseLength))
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if err := a.creds.Save(ctx, string(key), pass); err != nil {
		return err
	}
	printlnFn("API key saved successfully")
	return nil
}

func (a *App) Unlock(ctx context.Context) error {
	pass, err := getPassword(a.out, "Passphrase: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if err := a.creds.Unlock(ctx, pass); err != nil {
		return err
	}
	printlnFn("Session unlocked")
	return nil
}

func (a *App) Forget(ctx context.Context) error {
	if !Confirm(a.reader, "This will delete your API key and all settings. Continue?", a.out) {
		return nil
	}
	if err := a.creds.Forget(ctx); err != nil {
		return err
	}
	printlnFn("All data cleared")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	status, err := a.creds.Status(ctx)
	if err != nil {
		return err
	}
	printlnFn(status.String())
	printlnFn("Direction:", a.docs.Direction())

	if doc, ok := a.docs.Current(); ok {
		loaded, total := doc.Progress()
		printlnFn(fmt.Sprintf("Reading: %s (%d/%d translated)", doc.Title, loaded, total))
	} else {
		printlnFn("No text open")
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/teaisforme/teataster/internal/client/models"
	"github.com/teaisforme/teataster/internal/client/repositories/preferences"
	"github.com/teaisforme/teataster/internal/client/session"
	"github.com/teaisforme/teataster/internal/common"
)

func (a *App) register(ctx context.Context) {
	firstName, err := GetSimpleText(a.reader, "First name", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	lastName, err := GetSimpleText(a.reader, "Last name", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	password, err := GetSecret("Choose a password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(password)

	user := &models.User{FirstName: firstName, LastName: lastName, Email: email}
	sess, err := a.auth.Register(ctx, user, string(password))
	if err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	fmt.Printf("Welcome, %s %s\n", sess.User.FirstName, sess.User.LastName)
}

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	password, err := GetSecret("Enter password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	fmt.Printf("Welcome, %s %s\n", sess.User.FirstName, sess.User.LastName)
}

func (a *App) logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return
	}
	// logout resets the vault posture, forget the stored choice as well
	if err := a.prefs.Delete(ctx, preferences.KeyUnlockMode); err != nil {
		fmt.Println("Failed to reset mode preference:", err)
	}
	fmt.Println("Logged out")
}

func (a *App) unlock(ctx context.Context) {
	ok, err := a.sessions.CanUnlock(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !ok {
		fmt.Println("Nothing to unlock")
		return
	}
	if err := a.sessions.Unlock(ctx); err != nil {
		fmt.Println("Unlock failed:", err)
		return
	}
	fmt.Println("Vault unlocked")
}

func (a *App) lock(ctx context.Context) {
	if !a.sessions.CanUseLocking(ctx) {
		fmt.Println("Locking is not supported on this device")
		return
	}
	if err := a.sessions.Lock(ctx); err != nil {
		fmt.Println("Lock failed:", err)
	}
}

func (a *App) modeCmd(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Printf("Current mode: %s\n", a.sessions.CurrentMode())
		fmt.Println("Usage: mode <device|pin|never|force>")
		return
	}

	var mode session.UnlockMode
	switch args[0] {
	case "device":
		mode = session.UnlockModeDevice
	case "pin":
		mode = session.UnlockModeSessionPIN
	case "never":
		mode = session.UnlockModeNeverLock
	case "force":
		mode = session.UnlockModeForceLogin
	default:
		fmt.Println("Unknown mode:", args[0])
		return
	}

	if err := a.sessions.SetUnlockMode(ctx, mode); err != nil {
		fmt.Println("Failed to switch mode:", err)
		return
	}
	if err := a.prefs.Set(ctx, preferences.KeyUnlockMode, string(mode)); err != nil {
		fmt.Println("Failed to remember mode:", err)
	}
	fmt.Printf("Unlock mode set to %s\n", mode)
}

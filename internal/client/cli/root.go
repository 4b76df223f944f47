package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if sess, err := a.sessions.GetSession(context.Background()); err == nil && sess != nil {
		s = sess.User.Email + " "
	}
	s += string(a.currentMode())
	return fmt.Sprintf("(%s)", s)
}

// Root runs the command loop until EOF or an explicit exit.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Tea Taster (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("tt %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "unlock":
			a.unlock(ctx)
		case "lock":
			a.lock(ctx)
		case "mode":
			a.modeCmd(ctx, args)
		case "categories":
			a.listCategories(ctx)
		case "l", "list":
			a.list(ctx)
		case "add":
			a.add(ctx)
		case "edit":
			a.edit(ctx)
		case "delete":
			a.delete(ctx)
		case "sync":
			a.sync(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	fmt.Println("Available commands:")
	fmt.Println("  register, login, logout  create an account / sign in / out")
	fmt.Println("  unlock, lock             unlock / lock the session vault")
	fmt.Println("  mode <device|pin|never|force>")
	fmt.Println("                           choose how the session vault unlocks")
	fmt.Println("  categories               list tea categories")
	fmt.Println("  (l)ist, add, edit, delete")
	fmt.Println("                           work with tasting notes")
	fmt.Println("  sync                     reconcile local changes with the server")
	fmt.Println("  exit | quit              leave the program")
}

package commands

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/nocfacilities/plantao-calendar/internal/app"
)

// HashPassword handles the hash-password subcommand: it creates the
// auth.secret file protecting edit mode.
func HashPassword(args []string) {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	overwrite := fs.Bool("overwrite", false, "Overwrite existing auth file without asking")
	insecureUnmask := fs.Bool("insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plantao-calendar hash-password [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates an auth.secret file with hashed password (Argon2id).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  AUTH_FILE    Path to auth file (default: ./auth.secret)\n")
	}
	fs.Parse(args)

	fmt.Print("Enter username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil || username == "" {
		fmt.Fprintf(os.Stderr, "Username cannot be empty\n")
		os.Exit(1)
	}

	var password, confirm string
	if *insecureUnmask {
		fmt.Fprintf(os.Stderr, "⚠️  WARNING: Password will be visible on screen!\n")
		fmt.Print("Enter password:   ")
		fmt.Scanln(&password)
		fmt.Print("Confirm password: ")
		fmt.Scanln(&confirm)
	} else {
		password = readSecretWithMask("Enter password:   ")
		confirm = readSecretWithMask("Confirm password: ")
	}

	if password == "" {
		fmt.Fprintf(os.Stderr, "Password cannot be empty\n")
		os.Exit(1)
	}
	if password != confirm {
		fmt.Fprintf(os.Stderr, "Passwords do not match\n")
		os.Exit(1)
	}

	if err := app.CreateAuthFile(os.Getenv("AUTH_FILE"), username, password, *overwrite); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readSecretWithMask reads terminal input and echoes asterisks.
func readSecretWithMask(prompt string) string {
	fmt.Print(prompt)

	oldState, err := term.GetState(int(syscall.Stdin))
	if err != nil {
		// Fallback to hidden input if raw mode is unavailable.
		secret, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		return string(secret)
	}
	defer term.Restore(int(syscall.Stdin), oldState)

	if _, err := term.MakeRaw(int(syscall.Stdin)); err != nil {
		secret, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		return string(secret)
	}

	var secret []byte
	reader := bufio.NewReader(os.Stdin)
	for {
		char, _, err := reader.ReadRune()
		if err != nil {
			break
		}
		switch char {
		case '\n', '\r':
			fmt.Println()
			return string(secret)
		case 127, 8: // Backspace / Delete
			if len(secret) > 0 {
				secret = secret[:len(secret)-1]
				fmt.Print("\b \b")
			}
		case 3: // Ctrl+C
			fmt.Println()
			os.Exit(1)
		default:
			if char >= 32 && char <= 126 {
				secret = append(secret, byte(char))
				fmt.Print("*")
			}
		}
	}

	fmt.Println()
	return string(secret)
}

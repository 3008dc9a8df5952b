package commands

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/nocfacilities/plantao-calendar/internal/sharelink"
)

// ShareLink handles the share-link subcommand: it seals a company name and
// an expiry date into the URL parameter a restricted viewer receives.
func ShareLink(args []string) {
	fs := flag.NewFlagSet("share-link", flag.ExitOnError)
	company := fs.String("empresa", "", "Company the link is restricted to (required)")
	validity := fs.String("validade", "", "Expiry date YYYY-MM-DD (required)")
	baseURL := fs.String("base", os.Getenv("BASE_URL"), "Calendar base URL to embed the token in (optional)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plantao-calendar share-link -empresa NAME -validade YYYY-MM-DD [-base URL]\n\n")
		fmt.Fprintf(os.Stderr, "Prints a sealed, expiring link parameter for a restricted company view.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LINK_SECRET    Sealing secret (prompted when unset)\n")
		fmt.Fprintf(os.Stderr, "  BASE_URL       Default for -base\n")
	}
	fs.Parse(args)

	if *company == "" || *validity == "" {
		fs.Usage()
		os.Exit(1)
	}

	exp, err := time.ParseInLocation("2006-01-02", *validity, time.Local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid expiry date: %v\n", err)
		os.Exit(1)
	}
	// The link stays valid through the whole expiry day.
	exp = exp.AddDate(0, 0, 1)

	secret := os.Getenv("LINK_SECRET")
	if secret == "" {
		secret = readSecretWithMask("Enter link secret: ")
	}
	if secret == "" {
		fmt.Fprintf(os.Stderr, "Link secret cannot be empty\n")
		os.Exit(1)
	}

	token, err := sharelink.Seal(secret, *company, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Share link token for %s (valid until %s):\n", *company, *validity)
	if *baseURL != "" {
		fmt.Printf("%s?%s=%s\n", *baseURL, sharelink.ParamName, url.QueryEscape(token))
	} else {
		fmt.Printf("%s=%s\n", sharelink.ParamName, url.QueryEscape(token))
	}
}

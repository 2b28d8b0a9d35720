package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"probate-records/lib/timezone"
	"strings"
	"time"

	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptDate asks for the search date, an empty answer means today.
func promptDate(r *bufio.Reader, today time.Time) (time.Time, error) {
	fmt.Printf("Date to search (YYYY-MM-DD) [%s]: ", today.Format(time.DateOnly))
	value, err := readLine(r)
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return today, nil
	}
	return timezone.ParseDate(value)
}

// promptApiKey asks for the solving service key without echoing it when
// stdin is a terminal.
func promptApiKey() (string, error) {
	fmt.Print("Anti-Captcha API key: ")
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(stdin)
	}
	key, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(key)), nil
}

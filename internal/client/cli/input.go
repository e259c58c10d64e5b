package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText asks for one value on a single line:
//
//	Username [alice]: _
//
// The bracketed part is shown only when def is set, and an empty answer then
// returns def. Without a default an empty answer asks again. A final line
// without a newline still counts; EOF before any answer is an error.
func GetSimpleText(reader *bufio.Reader, prompt, def string, w io.Writer) (string, error) {
	label := prompt + ": "
	if def != "" {
		label = fmt.Sprintf("%s [%s]: ", prompt, def)
	}

	for {
		if _, err := fmt.Fprint(w, label); err != nil {
			return "", err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", err
		}

		switch answer := strings.TrimSpace(line); {
		case answer != "":
			return answer, nil
		case def != "":
			return def, nil
		case err != nil:
			return "", err
		}
	}
}

// GetPassword prints "Password: " and reads the answer from the terminal
// without echo. The caller wipes the result.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword и isTerminal: точки подмены для тестов.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ErrEmpty: пользователь ничего не ввёл.
var ErrEmpty = errors.New("empty input")

// Password печатает label в w и читает пароль. С терминала ввод не отображается,
// из пайпа читается одна строка.
func Password(r io.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(w, label+": "); err != nil {
		return "", err
	}
	if f, ok := r.(*os.File); ok && isTerminal(int(f.Fd())) {
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		if len(b) == 0 {
			return "", ErrEmpty
		}
		return string(b), nil
	}
	line, err := readLine(bufio.NewReader(r))
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", ErrEmpty
	}
	return line, nil
}

// NewPassword запрашивает пароль дважды и проверяет совпадение.
func NewPassword(r io.Reader, w io.Writer) (string, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if f, ok := r.(*os.File); ok && isTerminal(int(f.Fd())) {
		src = f
	}
	p1, err := Password(src, w, "New password")
	if err != nil {
		return "", err
	}
	p2, err := Password(src, w, "Repeat password")
	if err != nil {
		return "", err
	}
	if p1 != p2 {
		return "", errors.New("passwords do not match")
	}
	return p1, nil
}

// Line печатает label и читает одну строку.
func Line(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(w, label+"\n> "); err != nil {
		return "", err
	}
	return readLine(r)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

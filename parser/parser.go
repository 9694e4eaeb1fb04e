// Package parser - Modelfile-Parser fuer den create Command
// Hauptmodul: ParseFile zerlegt ein Modelfile in Commands
package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Modelfile is a parsed Modelfile. Commands keep the order of the file.
type Modelfile struct {
	Commands []Command
}

func (f Modelfile) String() string {
	var sb strings.Builder
	for _, cmd := range f.Commands {
		fmt.Fprintln(&sb, cmd.String())
	}

	return sb.String()
}

type state int

const (
	stateNil state = iota
	stateName
	stateValue
	stateParameter
	stateMessage
	stateComment
)

var (
	errMissingFrom        = errors.New("no FROM line")
	errInvalidMessageRole = errors.New("message role must be one of \"system\", \"user\", or \"assistant\"")
	errInvalidCommand     = errors.New("command must be one of \"from\", \"license\", \"template\", \"system\", \"adapter\", \"parameter\", or \"message\"")
)

// ParserError is a syntax error at a line of the Modelfile.
type ParserError struct {
	LineNumber int
	Msg        string
}

func (e *ParserError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("(line %d): %s", e.LineNumber, e.Msg)
	}
	return e.Msg
}

// ParseFile reads a Modelfile. A leading UTF-8 or UTF-16 byte order mark is
// honoured. The file must contain a FROM line.
func ParseFile(r io.Reader) (*Modelfile, error) {
	p := fileParser{line: 1}

	tr := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	br := bufio.NewReader(transform.NewReader(r, tr))

	for {
		r, _, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		if err := p.feed(r); err != nil {
			return nil, err
		}
	}

	if err := p.flush(); err != nil {
		return nil, err
	}

	for _, cmd := range p.file.Commands {
		if cmd.Name == "model" {
			return &p.file, nil
		}
	}

	return nil, errMissingFrom
}

// fileParser holds the state machine of ParseFile.
type fileParser struct {
	file Modelfile
	cmd  Command
	curr state
	line int
	buf  bytes.Buffer
	role string
}

func (p *fileParser) errorf(err error) error {
	return &ParserError{LineNumber: p.line, Msg: err.Error()}
}

func (p *fileParser) feed(r rune) error {
	if isNewline(r) {
		p.line++
	}

	next, r, err := parseRuneForState(r, p.curr)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", err, p.buf.String())
	} else if err != nil {
		return p.errorf(err)
	}

	if next != p.curr {
		switch p.curr {
		case stateName:
			if !isValidCommand(p.buf.String()) {
				return p.errorf(errInvalidCommand)
			}

			// the next state depends on the command word
			switch s := strings.ToLower(p.buf.String()); s {
			case "from":
				p.cmd.Name = "model"
			case "parameter":
				next = stateParameter
			case "message":
				next = stateMessage
				p.cmd.Name = s
			default:
				p.cmd.Name = s
			}
		case stateParameter:
			p.cmd.Name = p.buf.String()
		case stateMessage:
			if !isValidMessageRole(p.buf.String()) {
				return p.errorf(errInvalidMessageRole)
			}
			p.role = p.buf.String()
		case stateValue:
			s, ok := unquote(strings.TrimSpace(p.buf.String()))
			if !ok || isSpace(r) {
				// inside quotes or between words
				_, err := p.buf.WriteRune(r)
				return err
			}

			p.appendCommand(s)
		}

		p.buf.Reset()
		p.curr = next
	}

	if strconv.IsPrint(r) {
		if _, err := p.buf.WriteRune(r); err != nil {
			return err
		}
	}
	return nil
}

func (p *fileParser) flush() error {
	switch p.curr {
	case stateComment, stateNil:
		return nil
	case stateValue:
		s, ok := unquote(strings.TrimSpace(p.buf.String()))
		if !ok {
			return io.ErrUnexpectedEOF
		}

		p.appendCommand(s)
		return nil
	default:
		return io.ErrUnexpectedEOF
	}
}

func (p *fileParser) appendCommand(args string) {
	if p.role != "" {
		args = p.role + ": " + args
		p.role = ""
	}

	p.cmd.Args = args
	p.file.Commands = append(p.file.Commands, p.cmd)
}

func parseRuneForState(r rune, cs state) (state, rune, error) {
	switch cs {
	case stateNil:
		switch {
		case r == '#':
			return stateComment, 0, nil
		case isSpace(r), isNewline(r):
			return stateNil, 0, nil
		default:
			return stateName, r, nil
		}
	case stateName:
		switch {
		case isAlpha(r):
			return stateName, r, nil
		case isSpace(r):
			return stateValue, 0, nil
		default:
			return stateNil, 0, errInvalidCommand
		}
	case stateValue:
		switch {
		case isNewline(r), isSpace(r):
			return stateNil, r, nil
		default:
			return stateValue, r, nil
		}
	case stateParameter:
		switch {
		case isAlpha(r), isNumber(r), r == '_':
			return stateParameter, r, nil
		case isSpace(r):
			return stateValue, 0, nil
		default:
			return stateNil, 0, io.ErrUnexpectedEOF
		}
	case stateMessage:
		switch {
		case isAlpha(r):
			return stateMessage, r, nil
		case isSpace(r):
			return stateValue, 0, nil
		default:
			return stateNil, 0, io.ErrUnexpectedEOF
		}
	case stateComment:
		if isNewline(r) {
			return stateNil, 0, nil
		}
		return stateComment, 0, nil
	default:
		return stateNil, 0, errors.New("")
	}
}

package compile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"golang.org/x/exp/ebnf"
)

// Load reads an EBNF grammar from a file.
func Load(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(filename, f)
}

// Parse reads an EBNF grammar from r. Filename is used in error positions.
func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// Verify checks that every production the grammar uses is defined, that
// every production is reachable from start, and that lexical productions
// only refer to lexical productions.
func Verify(grammar ebnf.Grammar, start string) error {
	if start == "" {
		return ErrNoStart
	}
	if err := ebnf.Verify(grammar, start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

// Errors splits an error returned by Parse or Verify into the individual
// problems found in the grammar.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() != reflect.Slice {
			continue
		}
		errs := make([]error, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item, ok := v.Index(i).Interface().(error); ok {
				errs = append(errs, item)
			}
		}
		return errs
	}
	return []error{err}
}

// Package sample reads numeric samples from plain text.
//
// A sample file holds decimal numbers separated by any mix of spaces, tabs
// and newlines, e.g. "1 2 3" on one line or one value per line.
package sample

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Read returns the numbers stored in the file at path, in file order. A file
// that cannot be opened yields an empty sample.
func Read(path string) []float64 {
	f, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("sample: open failed")
		return nil
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads whitespace separated numbers from r the way a stream extractor
// does: each number is the longest decimal prefix of what is left, so "1.5abc"
// yields 1.5 and "3,4" yields 3. Reading stops at the first position where no
// number starts, or at the end of input, and returns what was read so far.
func Parse(r io.Reader) []float64 {
	var values []float64
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
scan:
	for scanner.Scan() {
		for rest := scanner.Text(); rest != ""; {
			prefix := decimalPrefix(rest)
			if prefix == "" {
				log.Debug().Str("token", rest).Int("read", len(values)).Msg("sample: stopped at non-numeric token")
				break scan
			}
			v, err := strconv.ParseFloat(prefix, 64)
			if err != nil {
				log.Debug().Err(err).Int("read", len(values)).Msg("sample: stopped at unparsable token")
				break scan
			}
			values = append(values, v)
			rest = rest[len(prefix):]
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debug().Err(err).Int("read", len(values)).Msg("sample: read failed")
	}
	return values
}

// decimalPrefix returns the longest prefix of s in plain decimal notation:
// an optional sign, digits with an optional fraction, and an optional
// exponent. NaN, Inf, hexadecimal mantissas and digit separators are not part
// of it.
func decimalPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

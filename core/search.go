package big

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	digest "github.com/opencontainers/go-digest"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/meigma/big/core/internal/bigtype"
	"github.com/meigma/big/core/internal/source"
)

type searchConfig struct {
	regex    bool
	encoding encoding.Encoding
}

// SearchOption configures Search.
type SearchOption func(*searchConfig)

// SearchWithRegex treats the pattern as a regular expression instead of a
// literal string.
func SearchWithRegex(enabled bool) SearchOption {
	return func(c *searchConfig) {
		c.regex = enabled
	}
}

// SearchWithEncoding sets the encoding entry contents are decoded with
// before matching. The default is ISO-8859-1.
func SearchWithEncoding(enc encoding.Encoding) SearchOption {
	return func(c *searchConfig) {
		if enc != nil {
			c.encoding = enc
		}
	}
}

// SearchResult lists the entries whose content matched.
type SearchResult struct {
	// Names holds matching entry names in index order.
	Names []string

	// Matches is the total number of non-overlapping matches.
	Matches int
}

// Search scans the decoded content of every entry for pattern. Pending
// edits are searched as they are; the archive is not repacked. Entries
// whose payload is compressed with no codec to decode it are skipped.
func (a *Archive) Search(pattern string, opts ...SearchOption) (SearchResult, error) {
	cfg := searchConfig{encoding: charmap.ISO8859_1}
	for _, opt := range opts {
		opt(&cfg)
	}

	if pattern == "" {
		return SearchResult{}, errors.New("big: empty search pattern")
	}
	expr := pattern
	if !cfg.regex {
		expr = regexp.QuoteMeta(pattern)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return SearchResult{}, fmt.Errorf("big: search pattern: %w", err)
	}

	var src source.Source
	if a.backing != nil && len(a.entries) > 0 {
		if src, err = a.acquire(); err != nil {
			return SearchResult{}, err
		}
		defer src.Close()
	}

	var res SearchResult
	for _, e := range a.entries {
		data, err := a.readFrom(src, e)
		if err != nil {
			return SearchResult{}, err
		}
		data, err = a.decode(e.name, data)
		if errors.Is(err, bigtype.ErrCompressed) {
			a.log().Debug("search skipping compressed entry", "name", e.name)
			continue
		}
		if err != nil {
			return SearchResult{}, err
		}
		text, err := cfg.encoding.NewDecoder().Bytes(data)
		if err != nil {
			a.log().Debug("search skipping undecodable entry", "name", e.name, "error", err)
			continue
		}
		n := len(re.FindAllIndex(text, -1))
		if n == 0 {
			continue
		}
		res.Names = append(res.Names, e.name)
		res.Matches += n
	}
	return res, nil
}

type globConfig struct {
	regex      bool
	ignoreCase bool
	invert     bool
}

// GlobOption configures Glob.
type GlobOption func(*globConfig)

// GlobWithRegex treats the pattern as an unanchored regular expression
// instead of a filename pattern.
func GlobWithRegex(enabled bool) GlobOption {
	return func(c *globConfig) {
		c.regex = enabled
	}
}

// GlobWithIgnoreCase makes matching case insensitive.
func GlobWithIgnoreCase(enabled bool) GlobOption {
	return func(c *globConfig) {
		c.ignoreCase = enabled
	}
}

// GlobWithInvert returns the names that do not match.
func GlobWithInvert(enabled bool) GlobOption {
	return func(c *globConfig) {
		c.invert = enabled
	}
}

// Glob returns the names matching a Unix filename pattern, in index order.
// '*' matches any run of characters including '\', '?' matches one
// character and '[...]' matches a character class. Matching is case
// sensitive unless GlobWithIgnoreCase is set.
func (a *Archive) Glob(pattern string, opts ...GlobOption) ([]string, error) {
	var cfg globConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var re *regexp.Regexp
	var err error
	if cfg.regex {
		expr := pattern
		if cfg.ignoreCase {
			expr = "(?i)" + expr
		}
		if re, err = regexp.Compile(expr); err != nil {
			return nil, fmt.Errorf("big: name pattern: %w", err)
		}
	} else if re, err = globRegexp(pattern, cfg.ignoreCase); err != nil {
		return nil, err
	}

	var names []string
	for _, e := range a.entries {
		if re.MatchString(e.name) != cfg.invert {
			names = append(names, e.name)
		}
	}
	return names, nil
}

// globRegexp translates an fnmatch pattern into an anchored regexp.
func globRegexp(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	var b strings.Builder
	if ignoreCase {
		b.WriteString("(?i)")
	}
	b.WriteString("^(?s:")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(runes) && runes[j] == '!' {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// unterminated class matches a literal '['
				b.WriteString(`\[`)
				continue
			}
			class := string(runes[i+1 : j])
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('^')
				class = class[1:]
			}
			if strings.HasPrefix(class, "^") {
				b.WriteByte('\\')
			}
			b.WriteString(strings.ReplaceAll(class, `\`, `\\`))
			b.WriteByte(']')
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(")$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("big: glob pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Digest returns the sha256 digest of the decoded content of name.
func (a *Archive) Digest(name string) (digest.Digest, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return "", err
	}
	return digest.FromBytes(data), nil
}

package lazyload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gorilla/css/scanner"
)

// ErrInvalidOptions is returned by New for options it cannot honour.
var ErrInvalidOptions = errors.New("lazyload: invalid options")

// Options configures a Loader. Start from DefaultOptions and override.
type Options struct {
	// Selector identifies lazy candidates.
	Selector string
	// RootMargin grows the viewport so loading starts before an element
	// scrolls into view. CSS margin shorthand, px or %.
	RootMargin string
	// Threshold is the visible ratio required to trigger a load, 0 to 1.
	Threshold float64
	// LoadedClass marks promoted elements.
	LoadedClass string
}

// DefaultOptions matches the markup produced by the catalog package.
func DefaultOptions() Options {
	return Options{
		Selector:    "img.lazy, .site-icon.lazy",
		RootMargin:  "0px 0px 200px 0px",
		Threshold:   0.1,
		LoadedClass: "lazy-loaded",
	}
}

// Validate checks every field.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Selector) == "" {
		return fmt.Errorf("%w: selector is empty", ErrInvalidOptions)
	}
	if _, err := cascadia.Compile(o.Selector); err != nil {
		return fmt.Errorf("%w: selector %q: %v", ErrInvalidOptions, o.Selector, err)
	}
	if _, err := ParseMargin(o.RootMargin); err != nil {
		return fmt.Errorf("%w: root margin: %w", ErrInvalidOptions, err)
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0, 1]", ErrInvalidOptions, o.Threshold)
	}
	if o.LoadedClass == "" || strings.ContainsAny(o.LoadedClass, " \t\n") {
		return fmt.Errorf("%w: loaded class %q must be a single class name", ErrInvalidOptions, o.LoadedClass)
	}
	return nil
}

// Length is one margin component.
type Length struct {
	Value   float64
	Percent bool
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return v + "%"
	}
	return v + "px"
}

// Margin is a parsed rootMargin.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// String renders the four-value form.
func (m Margin) String() string {
	return strings.Join([]string{m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String()}, " ")
}

// ParseMargin parses a rootMargin the way IntersectionObserver does:
// one to four lengths in px or %, expanded like the CSS margin shorthand.
// The empty string means "0px".
func ParseMargin(s string) (Margin, error) {
	var vals []Length
	sign := 1.0
	pendingSign := false

	sc := scanner.New(s)
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			if pendingSign {
				return Margin{}, fmt.Errorf("dangling sign in %q", s)
			}
			return expand(vals, s)
		case scanner.TokenS, scanner.TokenComment:
			continue
		case scanner.TokenChar:
			if (tok.Value == "-" || tok.Value == "+") && !pendingSign {
				pendingSign = true
				if tok.Value == "-" {
					sign = -1
				}
				continue
			}
			return Margin{}, fmt.Errorf("unexpected %q in %q", tok.Value, s)
		case scanner.TokenDimension, scanner.TokenPercentage, scanner.TokenNumber:
			l, err := parseLength(tok)
			if err != nil {
				return Margin{}, err
			}
			l.Value *= sign
			vals = append(vals, l)
			sign, pendingSign = 1, false
		case scanner.TokenError:
			return Margin{}, fmt.Errorf("invalid margin %q: %s", s, tok.Value)
		default:
			return Margin{}, fmt.Errorf("unexpected %q in %q", tok.Value, s)
		}
	}
}

func parseLength(tok *scanner.Token) (Length, error) {
	raw := tok.Value
	switch tok.Type {
	case scanner.TokenPercentage:
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("percentage %q: %w", raw, err)
		}
		return Length{Value: v, Percent: true}, nil
	case scanner.TokenNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v != 0 {
			return Length{}, fmt.Errorf("length %q needs a px or %% unit", raw)
		}
		return Length{}, nil
	default:
		lower := strings.ToLower(raw)
		if !strings.HasSuffix(lower, "px") {
			return Length{}, fmt.Errorf("length %q must be px or %%", raw)
		}
		v, err := strconv.ParseFloat(lower[:len(lower)-2], 64)
		if err != nil {
			return Length{}, fmt.Errorf("length %q: %w", raw, err)
		}
		return Length{Value: v}, nil
	}
}

func expand(vals []Length, s string) (Margin, error) {
	switch len(vals) {
	case 0:
		return Margin{}, nil
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	case 4:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	default:
		return Margin{}, fmt.Errorf("too many values in %q", s)
	}
}

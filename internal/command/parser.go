// Package command parses line-mode input into timer intents.
package command

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
)

// Parser matches user input to intents using keywords and simple patterns.
type Parser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewParser creates a keyword-based intent parser.
func NewParser(log *logger.Logger) *Parser {
	p := &Parser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(start|go|begin|s)$`), domain.IntentStart},
		{regexp.MustCompile(`(?i)^(cancel|stop|abort|c)$`), domain.IntentCancel},
		{regexp.MustCompile(`(?i)^(reset|clear|r)$`), domain.IntentReset},
		{regexp.MustCompile(`(?i)^(status|time|left|remaining|st)$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), domain.IntentQuit},
	}
	return p
}

// selectPrefix matches "set 5m", "select 1:00:00", "pick 1 2 3".
var selectPrefix = regexp.MustCompile(`(?i)^(set|select|pick)\s+(.+)$`)

// Parse converts user input into an intent. Bare durations ("5m",
// "1:30:00", "90") are treated as a selection.
func (p *Parser) Parse(input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent}, nil
		}
	}

	payload := trimmed
	explicit := false
	if m := selectPrefix.FindStringSubmatch(trimmed); m != nil {
		payload = strings.TrimSpace(m[2])
		explicit = true
	}

	h, m, s, err := ParseSelection(payload)
	if err != nil {
		if explicit {
			return nil, err
		}
		p.log.Debug("no match, returning unknown intent")
		return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
	}

	return &domain.Intent{Type: domain.IntentSelect, Payload: payload, Hour: h, Minute: m, Second: s}, nil
}

// maxSeconds is the longest selection a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// ParseSelection turns a duration into hour/minute/second components.
// Accepted forms:
//
//	1:02:03   hours:minutes:seconds
//	02:03     minutes:seconds
//	1 2 3     hours minutes seconds
//	90        seconds
//	1h2m3s    Go duration syntax, sub-second part dropped
func ParseSelection(s string) (hour, minute, second int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, fmt.Errorf("%w: empty", domain.ErrInvalidDuration)
	}

	switch {
	case strings.Contains(s, ":"):
		return parseFields(s, strings.Split(s, ":"))
	case strings.ContainsAny(s, " \t"):
		return parseFields(s, strings.Fields(s))
	case isDigits(s):
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, s)
		}
		if int64(n) > maxSeconds {
			return 0, 0, 0, fmt.Errorf("%w: %q is too long", domain.ErrInvalidDuration, s)
		}
		hour, minute, second = domain.SplitDuration(time.Duration(n) * time.Second)
		return hour, minute, second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, s)
	}
	hour, minute, second = domain.SplitDuration(d)
	return hour, minute, second, nil
}

// parseFields reads 2 (m s) or 3 (h m s) numeric fields; minutes and
// seconds must be below 60.
func parseFields(raw string, fields []string) (hour, minute, second int, err error) {
	if len(fields) < 2 || len(fields) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, raw)
	}
	nums := make([]int, 3)
	offset := 3 - len(fields)
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if !isDigits(f) {
			return 0, 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, raw)
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, raw)
		}
		nums[offset+i] = n
	}
	if nums[1] > 59 || nums[2] > 59 {
		return 0, 0, 0, fmt.Errorf("%w: minutes and seconds must be 0-59 in %q", domain.ErrInvalidDuration, raw)
	}
	if int64(nums[0]) > maxSeconds/3600 || int64(nums[0])*3600+int64(nums[1])*60+int64(nums[2]) > maxSeconds {
		return 0, 0, 0, fmt.Errorf("%w: %q is too long", domain.ErrInvalidDuration, raw)
	}
	return nums[0], nums[1], nums[2], nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

package transform

import (
	"regexp"

	"github.com/pkg/errors"

	"github.com/wonderfulspam/promote-smith/pkg/config"
)

// Engine applies the configured content and filename transforms. It is the
// substitution side of promotion; the suggestion engine only ever proposes
// rules for it.
type Engine struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// ApplyContent runs every content rule matching filePath over the raw file
// text, in configuration order.
func (e *Engine) ApplyContent(filePath string, content []byte) ([]byte, error) {
	out := string(content)
	for _, rule := range e.cfg.ContentRulesFor(filePath) {
		re, err := regexp.Compile(rule.Find)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid content rule %q for %s", rule.Find, filePath)
		}
		out = re.ReplaceAllString(out, rule.Replace)
	}
	return []byte(out), nil
}

// ApplyFilename maps a from-side relative path to its promoted name.
func (e *Engine) ApplyFilename(filePath string) (string, error) {
	out := filePath
	for _, rule := range e.cfg.FilenameRulesFor(filePath) {
		re, err := regexp.Compile(rule.Find)
		if err != nil {
			return "", errors.Wrapf(err, "invalid filename rule %q for %s", rule.Find, filePath)
		}
		out = re.ReplaceAllString(out, rule.Replace)
	}
	return out, nil
}

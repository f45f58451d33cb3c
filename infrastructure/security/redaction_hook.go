package security

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const mask = "****"

// minSecretLen keeps short values from masking unrelated text
const minSecretLen = 4

// RedactionHook masks secrets in log messages and string fields before they
// reach any formatter.
type RedactionHook struct {
	replacer *strings.Replacer
}

// NewRedactionHook - creates hook masking every given secret
func NewRedactionHook(secrets ...string) *RedactionHook {
	var pairs []string
	for _, s := range secrets {
		if len(s) < minSecretLen {
			continue
		}
		pairs = append(pairs, s, mask)
	}
	if len(pairs) == 0 {
		return &RedactionHook{}
	}
	return &RedactionHook{replacer: strings.NewReplacer(pairs...)}
}

func (h *RedactionHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RedactionHook) Fire(entry *logrus.Entry) error {
	if h.replacer == nil {
		return nil
	}
	entry.Message = h.replacer.Replace(entry.Message)
	for k, v := range entry.Data {
		switch val := v.(type) {
		case string:
			entry.Data[k] = h.replacer.Replace(val)
		case error:
			entry.Data[k] = h.replacer.Replace(val.Error())
		case fmt.Stringer:
			entry.Data[k] = h.replacer.Replace(val.String())
		}
	}
	return nil
}

// Ensure RedactionHook implements logrus.Hook interface
var _ logrus.Hook = (*RedactionHook)(nil)

package security

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newBufferedLogger(hook logrus.Hook) (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.AddHook(hook)
	return logger, &buf
}

func TestRedactionHook_MasksMessageAndFields(t *testing.T) {
	logger, buf := newBufferedLogger(NewRedactionHook("s3cr3t-key"))

	logger.WithFields(logrus.Fields{
		"url": "https://hub/v0/s3cr3t-key/wd/hub",
	}).WithError(errors.New("dial https://hub/v0/s3cr3t-key/wd/hub: refused")).
		Infof("Starting remote session on https://hub/v0/%s/wd/hub", "s3cr3t-key")

	out := buf.String()
	assert.NotContains(t, out, "s3cr3t-key")
	assert.Contains(t, out, "/v0/****/wd/hub")
}

func TestRedactionHook_IgnoresShortSecrets(t *testing.T) {
	logger, buf := newBufferedLogger(NewRedactionHook("", "ab"))

	logger.Info("about abc")
	assert.Contains(t, buf.String(), "about abc")
	assert.NotContains(t, buf.String(), "****")
}

func TestRedactionHook_LeavesOtherValues(t *testing.T) {
	logger, buf := newBufferedLogger(NewRedactionHook("s3cr3t-key"))

	logger.WithField("steps", 12).Info("Run finished")
	assert.Contains(t, buf.String(), "steps=12")
}

package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

func TestLoadLevel(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	t.Run("default level", func(t *testing.T) {
		g := NewWithT(t)
		logrus.SetLevel(logrus.ErrorLevel)
		err := LoadLevel("")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(logrus.GetLevel()).To(Equal(logrus.InfoLevel))
	})

	t.Run("valid level", func(t *testing.T) {
		g := NewWithT(t)
		err := LoadLevel("debug")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(logrus.GetLevel()).To(Equal(logrus.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		g := NewWithT(t)
		logrus.SetLevel(logrus.TraceLevel)
		err := LoadLevel("invalid-level")
		g.Expect(err).To(MatchError("invalid log level 'invalid-level', must be one of [panic, fatal, error, warning, info, debug, trace]"))
		g.Expect(logrus.GetLevel()).To(Equal(logrus.InfoLevel))
	})
}

func TestRequestFields(t *testing.T) {
	g := NewWithT(t)

	req := httptest.NewRequest(http.MethodPost, "http://issuer.example.com/auth?expired", nil)

	g.Expect(RequestFields(req)).To(Equal(logrus.Fields{
		"host":   "issuer.example.com",
		"method": http.MethodPost,
		"path":   "/auth",
	}))
}

func TestFromContext(t *testing.T) {
	entry := logrus.WithField("kid", "key-1")

	tests := []struct {
		name     string
		ctx      context.Context
		expected logrus.FieldLogger
	}{
		{
			name:     "context with logger",
			ctx:      IntoContext(context.Background(), entry),
			expected: entry,
		},
		{
			name:     "context without logger",
			ctx:      context.Background(),
			expected: logrus.StandardLogger(),
		},
		{
			name:     "context with nil value",
			ctx:      context.WithValue(context.Background(), contextKeyLogger{}, nil),
			expected: logrus.StandardLogger(),
		},
		{
			name:     "context with wrong type",
			ctx:      context.WithValue(context.Background(), contextKeyLogger{}, "not a logger"),
			expected: logrus.StandardLogger(),
		},
		{
			name: "nested context keeps innermost logger",
			ctx: IntoContext(
				IntoContext(context.Background(), logrus.WithField("level", "parent")),
				entry),
			expected: entry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			g.Expect(FromContext(tt.ctx)).To(BeIdenticalTo(tt.expected))
		})
	}
}

func TestIntoRequest(t *testing.T) {
	g := NewWithT(t)

	base := httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil)
	entry := logrus.WithFields(RequestFields(base))

	req := IntoRequest(base, entry)

	g.Expect(FromRequest(req)).To(BeIdenticalTo(entry))
	g.Expect(FromRequest(base)).To(BeIdenticalTo(logrus.StandardLogger()))

	// The logger still works after the request context is canceled.
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	g.Expect(FromRequest(req.WithContext(ctx))).To(BeIdenticalTo(entry))
	FromRequest(req).Debug("test message")
}

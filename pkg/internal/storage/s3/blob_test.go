package s3_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeisme/filevault/pkg/internal/storage/s3"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^u42/[0-9a-z]{26}-[a-z0-9-]+(\.[a-z0-9-]+)?$`)

	tests := []struct {
		name   string
		suffix string
	}{
		{"Quarterly Report.PDF", "-quarterly-report.pdf"},
		{"../../etc/passwd", "-passwd"},
		{`C:\Users\me\photo.jpg`, "-photo.jpg"},
		{"", "-file"},
		{".env", "-file.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := s3.ObjectKey(42, tt.name, now)
			assert.Regexp(t, pattern, key)
			assert.True(t, strings.HasSuffix(key, tt.suffix), key)
		})
	}

	assert.NotEqual(t, s3.ObjectKey(1, "a.txt", now), s3.ObjectKey(1, "a.txt", now))
}
